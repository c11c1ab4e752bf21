package domain

// User representa a entidade do usuário exibida na tela de administração.
type User struct {
	ID       string   `json:"id" yaml:"id"`
	Username string   `json:"username" yaml:"username"`
	Role     UserRole `json:"role" yaml:"role"`
	Deleted  bool     `json:"deleted" yaml:"deleted"`

	// Hash bcrypt da senha; nunca serializado em JSON.
	PasswordHash string `json:"-" yaml:"password_hash,omitempty"`
}

// PasswordChangeRequest é o corpo de POST /users/{id}/password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário
const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)
