package model

// GenreAll is the sentinel filter value meaning "no genre restriction".
const GenreAll = "All"

// GenreOption pairs a stored genre value with its display label.
type GenreOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StoryGenres is the catalog of genres a story may carry.
var StoryGenres = []GenreOption{
	{Value: "fiction", Label: "Fiction"},
	{Value: "non_fiction", Label: "Non-Fiction"},
	{Value: "fantasy", Label: "Fantasy"},
	{Value: "science_fiction", Label: "Science Fiction"},
	{Value: "mystery", Label: "Mystery"},
	{Value: "thriller", Label: "Thriller"},
	{Value: "romance", Label: "Romance"},
	{Value: "horror", Label: "Horror"},
	{Value: "adventure", Label: "Adventure"},
	{Value: "drama", Label: "Drama"},
	{Value: "comedy", Label: "Comedy"},
	{Value: "historical", Label: "Historical"},
	{Value: "biography", Label: "Biography"},
	{Value: "poetry", Label: "Poetry"},
	{Value: "short_story", Label: "Short Story"},
	{Value: "novel", Label: "Novel"},
	{Value: "novella", Label: "Novella"},
	{Value: "memoir", Label: "Memoir"},
	{Value: "essay", Label: "Essay"},
	{Value: "other", Label: "Other"},
}

// IsGenre reports whether v is a known stored genre value.
func IsGenre(v string) bool {
	for _, g := range StoryGenres {
		if g.Value == v {
			return true
		}
	}
	return false
}
