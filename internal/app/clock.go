package app

import "time"

// ShopClock текущее время в часовом поясе магазина: от него зависит, какой день считается сегодняшним
type ShopClock struct {
	loc *time.Location
}

// NewShopClock создает часы для часового пояса
func NewShopClock(loc *time.Location) *ShopClock {
	if loc == nil {
		loc = time.UTC
	}
	return &ShopClock{loc: loc}
}

// Now возвращает текущее время в часовом поясе магазина
func (c *ShopClock) Now() time.Time {
	return time.Now().In(c.loc)
}
