package content

import (
	"fmt"
	"math"

	"github.com/ianmwanzi/portfolio/internal/icons"
)

// Category is one of the fixed skill groupings.
type Category string

const (
	Frontend Category = "frontend"
	Backend  Category = "backend"
	Tools    Category = "tools"
	Design   Category = "design"
)

// Categories in display order.
var Categories = []Category{Frontend, Backend, Tools, Design}

var categoryMeta = map[Category]struct {
	title string
	icon  icons.ID
	color string
}{
	Frontend: {"Frontend Development", icons.Code, "text-blue"},
	Backend:  {"Backend Development", icons.Database, "text-green"},
	Tools:    {"Tools & Technologies", icons.Settings, "text-orange"},
	Design:   {"Design & UI/UX", icons.Palette, "text-purple"},
}

func (c Category) Title() string  { return categoryMeta[c].title }
func (c Category) Icon() icons.ID { return categoryMeta[c].icon }
func (c Category) Color() string  { return categoryMeta[c].color }
func (c Category) String() string { return string(c) }

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}

func (c *Category) UnmarshalText(text []byte) error {
	v := Category(text)
	if !v.Valid() {
		return fmt.Errorf("unknown skill category %q", text)
	}
	*c = v
	return nil
}

// SkillGroup is one category's skills in declaration order.
type SkillGroup struct {
	Category Category
	Skills   []Skill
}

// Average is the rounded mean level; an empty group averages 0.
func (g SkillGroup) Average() int {
	return AverageLevel(g.Skills)
}

// AverageLevel returns round(mean(level)), or 0 for no skills.
func AverageLevel(skills []Skill) int {
	if len(skills) == 0 {
		return 0
	}
	sum := 0
	for _, s := range skills {
		sum += s.Level
	}
	return int(math.Round(float64(sum) / float64(len(skills))))
}

// GroupSkills buckets skills by category. Every category appears, in
// Categories order, even when it has no skills.
func GroupSkills(skills []Skill) []SkillGroup {
	groups := make([]SkillGroup, len(Categories))
	index := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		groups[i].Category = c
		index[c] = i
	}
	for _, s := range skills {
		if i, ok := index[s.Category]; ok {
			groups[i].Skills = append(groups[i].Skills, s)
		}
	}
	return groups
}
