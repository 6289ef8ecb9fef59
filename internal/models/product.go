package models

import "time"

// Tipos de produto (espécie alvo).
var ProductTypes = []string{"Cachorro", "Gato", "Passarinho", "Peixe", "Outros"}

type Product struct {
	ID uint `gorm:"primaryKey" json:"idPro"`

	Name        string  `gorm:"size:100;not null" json:"nome"`
	Description string  `gorm:"size:255;not null" json:"descricao"`
	Price       float64 `gorm:"not null" json:"preco"`
	Type        string  `gorm:"size:20;not null" json:"tipo"`
	Stock       *int    `json:"estoque"`
	Image       string  `gorm:"size:255" json:"img"`

	StoreID *uint  `json:"idLoja"`
	Store   *Store `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"loja,omitempty"`

	StaffID string `gorm:"size:20;not null" json:"idFuncionario"`
	Staff   *Staff `gorm:"foreignKey:StaffID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"funcionario,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidProductType(t string) bool {
	for _, v := range ProductTypes {
		if v == t {
			return true
		}
	}
	return false
}
