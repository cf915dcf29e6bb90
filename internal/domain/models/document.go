package models

// IDField is the key under which every stored document carries its identifier.
const IDField = "_id"

// Collection names used by the service.
const (
	CollectionBlogs       = "blogs"
	CollectionComments    = "comments"
	CollectionWishlist    = "wishlist"
	CollectionNewsletters = "newsletters"
)

// Document is a schemaless record as submitted by the client.
type Document map[string]any

// Query describes a find over one collection: equality filters on top-level
// fields, an optional sort and an optional limit (0 means unlimited).
type Query struct {
	Filter    map[string]any
	SortField string
	SortDesc  bool
	Limit     int64
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
