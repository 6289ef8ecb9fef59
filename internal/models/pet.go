package models

import "time"

type Pet struct {
	ID uint `gorm:"primaryKey" json:"idPet"`

	Name  string `gorm:"size:100;not null" json:"nome"`
	Type  string `gorm:"size:50;not null" json:"tipo"`
	Breed string `gorm:"size:100" json:"raca"`
	Age   string `gorm:"size:20" json:"idade"`

	// Datas de consulta e hospedagem marcadas direto no pet (fluxo legado,
	// independente da agenda de serviços).
	Consultation *time.Time `json:"consulta"`
	Boarding     *time.Time `json:"hotel"`

	AccountCPF string  `gorm:"size:11;not null;index" json:"idUsuario"`
	Account    *Account `gorm:"foreignKey:AccountCPF;references:CPF;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"usuario,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
