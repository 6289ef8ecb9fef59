package models

import "time"

// Account é o cliente final (identificado pelo CPF), distinto de Staff.
type Account struct {
	CPF string `gorm:"primaryKey;size:11" json:"cpf"`

	Name    string `gorm:"size:100;not null" json:"nome"`
	Surname string `gorm:"size:100;not null" json:"sobrenome"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"celular"`

	CEP        string  `gorm:"size:9;default:'Nenhum'" json:"cep"`
	Number     string  `gorm:"size:10" json:"numero"`
	Complement string  `gorm:"size:100" json:"complemento"`
	Address    *Address `gorm:"foreignKey:CEP;references:CEP;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"endereco,omitempty"`

	LoggedIn string `gorm:"size:1;default:'0'" json:"logado"`
	Avatar   string `gorm:"size:255" json:"img"`

	Pets []Pet `gorm:"foreignKey:AccountCPF" json:"pets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
