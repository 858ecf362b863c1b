package content

// Filter selects a subset of the project gallery.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterFeatured Filter = "featured"
)

// Filters in the order the gallery shows them.
var Filters = []struct {
	Value Filter
	Label string
}{
	{FilterAll, "All Projects"},
	{FilterFeatured, "Featured"},
}

// ParseFilter maps a query value onto a Filter. Anything unrecognised,
// including the empty string, is FilterAll.
func ParseFilter(s string) Filter {
	if Filter(s) == FilterFeatured {
		return FilterFeatured
	}
	return FilterAll
}

// FilterProjects returns the projects selected by f in declaration order.
// FilterAll returns projects unchanged.
func FilterProjects(projects []Project, f Filter) []Project {
	if f != FilterFeatured {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Featured is FilterProjects(c.Projects, FilterFeatured).
func (c *Content) Featured() []Project {
	return FilterProjects(c.Projects, FilterFeatured)
}
