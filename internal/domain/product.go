package domain

import "time"

// Product representa a linha de resumo de um produto (o que a página renderiza).
type Product struct {
	ID        int       `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Stock     int       `json:"stock" yaml:"stock"`
	Deleted   bool      `json:"deleted" yaml:"deleted"`
	Version   int       `json:"version,omitempty" yaml:"-"` // Para Controle de Concorrência Otimista (OCC) no sandbox
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"-"`
}

// ProductSnapshot é o que um diálogo recebe do elemento que o disparou.
type ProductSnapshot struct {
	ProductID    int
	ProductName  string
	CurrentStock int
}
