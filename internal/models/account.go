package models

import "time"

// Account is a registered user of the backend.
type Account struct {
	Identifier   string    `json:"cedula" bson:"cedula"`
	Email        string    `json:"correo" bson:"correo"`
	Name         string    `json:"nombre" bson:"nombre"`
	Phone        string    `json:"telefono" bson:"telefono"`
	PasswordHash string    `json:"-" bson:"contrasena"`
	Level        RoleLevel `json:"nivel" bson:"nivel"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}
