package model

// All returns every persisted entity, in migration order
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Customer{},
		&Order{},
		&User{},
	}
}
