package domain

var Tables = []interface{}{
	// Accounts
	&User{},
	&Customer{},
	&QueueCustomer{},
	// Catalog
	&Category{},
	&Product{},
	&ProductGallery{},
	// Sessions & ledger
	&Session{},
	&Balance{},
}
