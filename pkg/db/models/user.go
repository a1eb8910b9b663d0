package models

// User is a purchasing-desk operator account. PasswordHash holds an
// argon2id-encoded hash, never the plaintext.
type User struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"idusuario"`
	Name         string `gorm:"column:nombre;not null" json:"nombre"`
	Email        string `gorm:"column:correo;not null;uniqueIndex" json:"correo"`
	PasswordHash string `gorm:"column:contrasena;not null" json:"-"`
}

// TableName maps to the legacy table.
func (User) TableName() string {
	return "usuarios"
}
