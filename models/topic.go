package models

// Category is one of the five fixed knowledge-base categories.
type Category string

const (
	CategoryMachines    Category = "Machines"
	CategoryDosing      Category = "Dosing"
	CategoryMaintenance Category = "Maintenance"
	CategoryErrors      Category = "Errors"
	CategoryProcedures  Category = "Procedures"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryMachines,
	CategoryDosing,
	CategoryMaintenance,
	CategoryErrors,
	CategoryProcedures,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Topic is a single knowledge-base article.
type Topic struct {
	// ID is the unique topic identifier. Assigned by the server in remote
	// mode, or as max(existing)+1 by the local cache.
	ID int64 `json:"id"`

	// Title is the human-readable headline.
	Title string `json:"title"`

	// Category is the fixed classification of the topic.
	Category Category `json:"category"`

	// Keywords is the ordered list of search keywords.
	Keywords []string `json:"keywords"`

	// Content is the rich-text (HTML) body.
	Content string `json:"content"`

	// Preview is a markup-stripped, length-capped excerpt of Content.
	// It is derived, never authored: any change to Content recomputes it.
	Preview string `json:"preview"`

	// Author is the username of the creator. It is the sole authorization
	// anchor for edit/delete checks by non-admin users.
	Author string `json:"author"`

	// Date is the creation date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Views counts how many times the topic has been opened.
	Views int64 `json:"views"`

	// Helpful counts how many readers marked the topic as helpful.
	Helpful int64 `json:"helpful"`
}

// TableName returns the name of the database table
// associated with the Topic model.
func (t Topic) TableName() string {
	return "topics"
}

// TopicFilter narrows and shapes a topic listing.
type TopicFilter struct {
	// Search is a case-insensitive substring matched against title, content,
	// category, and every keyword.
	Search string

	// Category restricts results to an exact category match when non-empty.
	Category Category

	// Limit truncates the result count when positive.
	Limit int

	// OrderBy and Order select the sort key and direction. They are honoured
	// by the remote service only; the local cache always returns insertion
	// order, newest created first.
	OrderBy string
	Order   string
}

// TopicUpdate describes one update operation on a topic. The two increment
// shapes are mutually exclusive with each other and with the field merge:
// when IncrementView or IncrementHelpful is set, all other fields are
// ignored. Otherwise nil pointers mean "leave unchanged".
type TopicUpdate struct {
	IncrementView    bool `json:"incrementView,omitempty"`
	IncrementHelpful bool `json:"incrementHelpful,omitempty"`

	Title    *string   `json:"title,omitempty"`
	Category *Category `json:"category,omitempty"`
	Keywords *[]string `json:"keywords,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Author   *string   `json:"author,omitempty"`
}

// IsIncrement reports whether the update is one of the atomic counter shapes.
func (u TopicUpdate) IsIncrement() bool {
	return u.IncrementView || u.IncrementHelpful
}

// CategoryStat is a per-category topic count.
type CategoryStat struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
