package domain

const (
	DefaultAuthor      = "Unknown"
	DefaultCategory    = "General"
	DefaultDescription = ""
)

// field defaults applied to every article regardless of the provider it came from
var defaults = []struct {
	field func(*Article) *string
	value string
}{
	{field: func(a *Article) *string { return &a.Author }, value: DefaultAuthor},
	{field: func(a *Article) *string { return &a.Category }, value: DefaultCategory},
	{field: func(a *Article) *string { return &a.Description }, value: DefaultDescription},
}

// ApplyDefaults trims every text field and fills the optional ones that are empty.
func ApplyDefaults(a Article) Article {
	trimAll(&a)
	for _, d := range defaults {
		if p := d.field(&a); *p == "" {
			*p = d.value
		}
	}
	return a
}

// WithDefaults applies the same defaults table to a candidate.
func (c Candidate) WithDefaults() Candidate {
	a := ApplyDefaults(c.Article())
	c.Title = a.Title
	c.Description = a.Description
	c.URL = a.URL
	c.Source = a.Source
	c.Author = a.Author
	c.Category = a.Category
	return c
}
