package models

import "time"

// Categorias de serviço oferecidas pela loja.
var ServiceCategories = []string{"Veterinario", "Estetica", "Hospedagem", "Outros"}

type Service struct {
	ID uint `gorm:"primaryKey" json:"idServico"`

	Name        string  `gorm:"size:100;not null" json:"nome"`
	Description string  `gorm:"size:255" json:"descricao"`
	Price       float64 `gorm:"not null" json:"preco"`
	Duration    string  `gorm:"size:20" json:"duracao"`
	Category    string  `gorm:"size:20;not null" json:"categoria"`

	// Serviços com agendamentos ativos nunca são removidos, apenas desativados.
	Active bool `gorm:"default:true" json:"ativo"`

	StaffID *string `gorm:"size:20" json:"idFuncionario"`
	Staff   *Staff  `gorm:"foreignKey:StaffID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"funcionario,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidServiceCategory(c string) bool {
	for _, v := range ServiceCategories {
		if v == c {
			return true
		}
	}
	return false
}
