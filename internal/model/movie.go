package model

// Movie mirrors a row of the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Genre       – genre label.
//  Director    – director name.
//  ReleaseYear – year of release.
type Movie struct {
	ID          uint64 `json:"id"`           // movies.id
	Title       string `json:"title"`        // movies.title
	Genre       string `json:"genre"`        // movies.genre
	Director    string `json:"director"`     // movies.director
	ReleaseYear int    `json:"release_year"` // movies.release_year
}
