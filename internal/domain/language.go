package domain

// Language is one entry of the language registry. Submissions reference
// languages by slug.
type Language struct {
	Slug    string `db:"slug" json:"lang_slug"`
	Name    string `db:"name" json:"lang_name"`
	Version string `db:"version" json:"lang_version"`
}

type LanguageTable struct {
	Slug    string
	Name    string
	Version string
}

func GetLanguageTable() LanguageTable {
	return LanguageTable{
		Slug:    "slug",
		Name:    "name",
		Version: "version",
	}
}

func (LanguageTable) TableName() string {
	return "languages"
}

// SeedLanguages is the fixed registry installed at system setup.
func SeedLanguages() []Language {
	return []Language{
		{Slug: "py2", Name: "Python", Version: "2.7"},
		{Slug: "java8", Name: "Java", Version: "1.8"},
		{Slug: "nodejs6", Name: "NodeJS", Version: "6"},
		{Slug: "cpp", Name: "C++", Version: "11"},
		{Slug: "c", Name: "C", Version: "6"},
	}
}
