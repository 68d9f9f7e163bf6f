package domain

import "context"

// Item is a single recommendable entity: an identifier, a display name and
// the ordered tokens describing it.
type Item struct {
	ID     int
	Name   string
	Tokens []string
}

// Neighbor is a ranked similar item with its cosine score.
type Neighbor struct {
	ItemID int
	Name   string
	Score  float64
}

// Restaurant is an item as read from a restaurant listing file.
type Restaurant struct {
	Item
	Codes []string
	Price string
}

// Rating is one navigation step of a session: the restaurant shown and the
// letter the user pressed next.
type Rating struct {
	ItemID      int
	Letter      byte
	Personality string
}

// Session is a single browsing session from the session logs.
type Session struct {
	Date       string
	IP         string
	EntryPoint string
	Ratings    []Rating
	EndPoint   string
}

// Recommender is the query surface of a fitted corpus.
type Recommender interface {
	Similar(ctx context.Context, itemID, k int) ([]Neighbor, error)
	Similarity(itemA, itemB int) (float64, error)
	Item(itemID int) (Item, bool)
	Len() int
}
