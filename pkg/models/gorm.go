package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Document{},
		&DocumentVersion{},
		&DocumentLock{},
		&DocumentShare{},
		&DocumentFolder{},
	}
}
