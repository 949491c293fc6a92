package models

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Exclusion{},
		&Policy{},
		&Claim{},
		&ClaimDocument{},
		&Activity{},
		&Movement{},
		&AuditLog{},
	}
}
