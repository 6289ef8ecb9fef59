package models

import "time"

// Store é pouco mais do que uma chave de agrupamento para produtos.
type Store struct {
	ID uint `gorm:"primaryKey" json:"idLoja"`

	Name  string `gorm:"size:100;not null" json:"nome"`
	Image string `gorm:"size:255" json:"img"`

	CEP        string `gorm:"size:9" json:"cep"`
	Number     string `gorm:"size:10" json:"numero"`
	Complement string `gorm:"size:100" json:"complemento"`

	StaffID string `gorm:"size:20;not null" json:"idFuncionario"`
	Staff   *Staff `gorm:"foreignKey:StaffID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"funcionario,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
