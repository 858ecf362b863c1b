// Package content holds the portfolio's static data: profile, projects,
// skills, social links and the supporting About and Contact copy. Content is
// decoded once at startup, validated, and read-only afterwards.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ianmwanzi/portfolio/internal/icons"
)

//go:embed content.yaml
var defaultContent []byte

// ErrInvalid marks content that decoded but failed validation.
var ErrInvalid = errors.New("invalid content")

type Profile struct {
	Name     string `yaml:"name" validate:"required"`
	Title    string `yaml:"title" validate:"required"`
	Bio      string `yaml:"bio" validate:"required"`
	Location string `yaml:"location"`
	Email    string `yaml:"email" validate:"required,email"`
	Phone    string `yaml:"phone"`
	Resume   string `yaml:"resume"`
}

type Project struct {
	ID           int      `json:"id" yaml:"id" validate:"required"`
	Title        string   `json:"title" yaml:"title" validate:"required"`
	Description  string   `json:"description" yaml:"description" validate:"required"`
	Image        string   `json:"image" yaml:"image" validate:"required"`
	Technologies []string `json:"technologies" yaml:"technologies" validate:"dive,required"`
	DemoURL      string   `json:"demoUrl,omitempty" yaml:"demoUrl" validate:"omitempty,url"`
	GithubURL    string   `json:"githubUrl,omitempty" yaml:"githubUrl" validate:"omitempty,url"`
	Featured     bool     `json:"featured" yaml:"featured"`
}

type Skill struct {
	Name     string   `yaml:"name" validate:"required"`
	Level    int      `yaml:"level" validate:"gte=0,lte=100"`
	Category Category `yaml:"category" validate:"required"`
}

type SocialLink struct {
	Name string   `yaml:"name" validate:"required"`
	URL  string   `yaml:"url" validate:"required,url"`
	Icon icons.ID `yaml:"icon" validate:"required"`
}

type Experience struct {
	Company     string `yaml:"company" validate:"required"`
	Position    string `yaml:"position" validate:"required"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type Education struct {
	School      string `yaml:"school" validate:"required"`
	Degree      string `yaml:"degree" validate:"required"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type FAQ struct {
	Question string `yaml:"question" validate:"required"`
	Answer   string `yaml:"answer" validate:"required"`
}

// Content is the whole site's data set.
type Content struct {
	Profile    Profile           `yaml:"profile"`
	About      []string          `yaml:"about"`
	Projects   []Project         `yaml:"projects" validate:"dive"`
	Skills     []Skill           `yaml:"skills" validate:"dive"`
	Social     []SocialLink      `yaml:"social" validate:"dive"`
	Experience []Experience      `yaml:"experience" validate:"dive"`
	Education  []Education       `yaml:"education" validate:"dive"`
	FAQ        []FAQ             `yaml:"faq" validate:"dive"`
	Assets     map[string]string `yaml:"assets"`
}

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Load reads content from path on disk, or the compiled-in content when
// path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS reads and parses the named file from fsys.
func LoadFS(fsys fs.FS, name string) (*Content, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("could not read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Content, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint: gochecknoglobals

// Validate checks field constraints plus the cross references the templates
// depend on: project images must exist in Assets and project IDs must be
// unique.
func (c *Content) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	seen := make(map[int]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalid, p.ID)
		}
		seen[p.ID] = struct{}{}

		if _, ok := c.Assets[p.Image]; !ok {
			return fmt.Errorf("%w: project %q image %q has no asset", ErrInvalid, p.Title, p.Image)
		}
	}
	return nil
}

// ImageURL resolves a project's image key to the path served to browsers.
func (c *Content) ImageURL(p Project) string {
	return c.Assets[p.Image]
}

// ProjectByID returns the project with the given id.
func (c *Content) ProjectByID(id int) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
