package models

type Item struct {
	ID   int64
	Item string
}
