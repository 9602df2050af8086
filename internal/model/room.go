package model

// Room is a bookable room. The frontend historically calls these
// "products", which is why the CRUD surface lives under /products.
type Room struct {
	ID          uint64  `json:"id"`          // rooms.id
	Name        string  `json:"name"`        // rooms.name
	Capacity    uint32  `json:"capacity"`    // rooms.capacity (>= 1)
	Description *string `json:"description"` // rooms.description (nullable)
}
