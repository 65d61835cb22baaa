package dto

// LoginRequest credenciales de inicio de sesión. El código de empresa es
// obligatorio porque el username solo es único dentro de cada empresa.
type LoginRequest struct {
	EmpresaCodigo string `json:"empresaCodigo"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

// EmpresaResponse proyección de la empresa en respuestas de auth.
type EmpresaResponse struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// UsuarioResponse proyección del usuario autenticado (sin hash de password).
type UsuarioResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Nombre   string          `json:"nombre"`
	Apellido string          `json:"apellido"`
	Rol      string          `json:"rol"`
	Empresa  EmpresaResponse `json:"empresa"`
}

// LoginResponse tokens emitidos más el usuario.
type LoginResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         UsuarioResponse `json:"user"`
}

// RefreshRequest intercambio de refresh token por un nuevo access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse nuevo access token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
