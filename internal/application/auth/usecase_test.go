package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Mantenimiento-api/pkg/jwt"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeEmpresaRepo struct {
	mu       sync.Mutex
	empresas map[string]*entity.Empresa
}

func (f *fakeEmpresaRepo) GetByID(_ context.Context, id string) (*entity.Empresa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.empresas[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEmpresaRepo) GetByCodigo(_ context.Context, codigo string) (*entity.Empresa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.empresas {
		if e.Codigo == codigo {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeUsuarioRepo struct {
	mu       sync.Mutex
	usuarios map[string]*entity.Usuario
}

func (f *fakeUsuarioRepo) GetByID(_ context.Context, empresaID, id string) (*entity.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.usuarios[id]; ok && u.EmpresaID == empresaID {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsuarioRepo) GetByUsername(_ context.Context, empresaID, username string) (*entity.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.usuarios {
		if u.EmpresaID == empresaID && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsuarioRepo) UpdateUltimoLogin(_ context.Context, empresaID, id string, cuando time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.usuarios[id]; ok && u.EmpresaID == empresaID {
		u.UltimoLogin = &cuando
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPassword = "contraseña-segura"
	empresaID    = "empresa-1"
	usuarioID    = "usuario-1"
)

var testJWTCfg = JWTConfig{
	Secret:         "secret-de-access-para-tests",
	ExpMinutes:     15,
	RefreshSecret:  "secret-de-refresh-para-tests",
	RefreshExpDays: 7,
	Issuer:         "mantenimiento-api-test",
}

func newTestAuth(t *testing.T) (*AuthUseCase, *fakeUsuarioRepo, *fakeEmpresaRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	empresas := &fakeEmpresaRepo{empresas: map[string]*entity.Empresa{
		empresaID: {ID: empresaID, Codigo: "ACME", Nombre: "Acme Mantenimiento", Activa: true},
	}}
	usuarios := &fakeUsuarioRepo{usuarios: map[string]*entity.Usuario{
		usuarioID: {
			ID:           usuarioID,
			EmpresaID:    empresaID,
			Username:     "jperez",
			Email:        "jperez@acme.co",
			Nombre:       "Juana",
			Apellido:     "Pérez",
			PasswordHash: string(hash),
			Rol:          entity.RolTecnico,
			Activo:       true,
		},
	}}

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return NewAuthUseCase(usuarios, empresas, testJWTCfg, log), usuarios, empresas
}

func login(t *testing.T, uc *AuthUseCase) *dto.LoginResponse {
	t.Helper()
	out, err := uc.Login(context.Background(), dto.LoginRequest{
		EmpresaCodigo: "ACME", Username: "jperez", Password: testPassword,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteAccessYRefresh(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	out := login(t, uc)

	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "jperez", out.User.Username)
	assert.Equal(t, entity.RolTecnico, out.User.Rol)
	assert.Equal(t, "ACME", out.User.Empresa.Codigo)

	claims, err := pkgjwt.Parse(testJWTCfg.Secret, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, usuarioID, claims.Subject)
	assert.Equal(t, empresaID, claims.EmpresaID)
	assert.Equal(t, entity.RolTecnico, claims.Rol)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	_, err := uc.Login(context.Background(), dto.LoginRequest{
		EmpresaCodigo: "ACME", Username: "jperez", Password: "equivocada",
	})
	assert.ErrorIs(t, err, domain.ErrCredencialesInvalidas)
}

func TestLogin_EmpresaDesconocida(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	_, err := uc.Login(context.Background(), dto.LoginRequest{
		EmpresaCodigo: "NADIE", Username: "jperez", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmpresaNotFound)
}

func TestLogin_EmpresaInactiva(t *testing.T) {
	uc, _, empresas := newTestAuth(t)
	empresas.empresas[empresaID].Activa = false

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		EmpresaCodigo: "ACME", Username: "jperez", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmpresaNotFound, "una empresa inactiva se trata como inexistente")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, usuarios, _ := newTestAuth(t)
	usuarios.usuarios[usuarioID].Activo = false

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		EmpresaCodigo: "ACME", Username: "jperez", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrUsuarioNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_EmiteNuevoAccessToken(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	out := login(t, uc)

	refreshed, err := uc.Refresh(context.Background(), out.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	claims, err := pkgjwt.Parse(testJWTCfg.Secret, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, usuarioID, claims.Subject)
}

func TestRefresh_AccessTokenNoSirveComoRefresh(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	out := login(t, uc)

	_, err := uc.Refresh(context.Background(), out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalido, "los secretos de access y refresh son independientes")
}

func TestRefresh_UsuarioDesactivado_Rechazado(t *testing.T) {
	uc, usuarios, _ := newTestAuth(t)
	out := login(t, uc)

	usuarios.usuarios[usuarioID].Activo = false
	_, err := uc.Refresh(context.Background(), out.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrCuentaInactiva, "el refresh relee el estado actual, no los claims")
}

func TestRefresh_RolActualizadoSeRederiva(t *testing.T) {
	uc, usuarios, _ := newTestAuth(t)
	out := login(t, uc)

	// Promoción después del login: el nuevo access token trae el rol vigente.
	usuarios.usuarios[usuarioID].Rol = entity.RolLiderEquipo
	refreshed, err := uc.Refresh(context.Background(), out.RefreshToken)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testJWTCfg.Secret, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RolLiderEquipo, claims.Rol)
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolvePrincipal
// ──────────────────────────────────────────────────────────────────────────────

func TestResolvePrincipal_ReconstruyeDesdeAlmacenamiento(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	out := login(t, uc)

	p, err := uc.ResolvePrincipal(context.Background(), out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, usuarioID, p.ID)
	assert.Equal(t, empresaID, p.EmpresaID)
	assert.Equal(t, "ACME", p.EmpresaCodigo)
	assert.Equal(t, entity.RolTecnico, p.Rol)
}

func TestResolvePrincipal_TokenBasura(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	_, err := uc.ResolvePrincipal(context.Background(), "no.es.un.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalido)
}

func TestResolvePrincipal_EmpresaDesactivada_Rechazado(t *testing.T) {
	uc, _, empresas := newTestAuth(t)
	out := login(t, uc)

	empresas.empresas[empresaID].Activa = false
	_, err := uc.ResolvePrincipal(context.Background(), out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrCuentaInactiva)
}
