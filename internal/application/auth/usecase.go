package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/Mantenimiento-api/pkg/jwt"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// JWTConfig configuración para emisión de tokens. Access y refresh usan
// secretos distintos.
type JWTConfig struct {
	Secret         string
	ExpMinutes     int
	RefreshSecret  string
	RefreshExpDays int
	Issuer         string
}

// AuthUseCase casos de uso de autenticación: login, refresco y resolución
// del principal por request. Las fallas devuelven errores de dominio
// distinguibles; la capa HTTP los colapsa en un 401 genérico y solo el log
// conserva la causa concreta.
type AuthUseCase struct {
	usuarioRepo repository.UsuarioRepository
	empresaRepo repository.EmpresaRepository
	jwtCfg      JWTConfig
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarioRepo repository.UsuarioRepository, empresaRepo repository.EmpresaRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{usuarioRepo: usuarioRepo, empresaRepo: empresaRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica empresa, usuario y password; emite access y refresh token.
// El orden importa: primero la empresa por código (debe existir y estar
// activa), luego el usuario dentro de esa empresa, luego el hash bcrypt.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	empresa, err := uc.empresaRepo.GetByCodigo(ctx, in.EmpresaCodigo)
	if err != nil {
		return nil, err
	}
	if empresa == nil || !empresa.Activa {
		uc.log.Warn().Str("empresa_codigo", in.EmpresaCodigo).Msg("login: empresa no encontrada o inactiva")
		return nil, domain.ErrEmpresaNotFound
	}

	usuario, err := uc.usuarioRepo.GetByUsername(ctx, empresa.ID, in.Username)
	if err != nil {
		return nil, err
	}
	if usuario == nil || !usuario.Activo {
		uc.log.Warn().Str("empresa_id", empresa.ID).Str("username", in.Username).Msg("login: usuario no encontrado o inactivo")
		return nil, domain.ErrUsuarioNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("empresa_id", empresa.ID).Str("username", in.Username).Msg("login: password incorrecto")
		return nil, domain.ErrCredencialesInvalidas
	}

	// Último login: mejor esfuerzo, no bloquea la respuesta.
	go func() {
		if err := uc.usuarioRepo.UpdateUltimoLogin(context.Background(), empresa.ID, usuario.ID, time.Now()); err != nil {
			uc.log.Warn().Err(err).Str("usuario_id", usuario.ID).Msg("login: no se pudo actualizar último login")
		}
	}()

	accessToken, err := uc.issueAccessToken(usuario, empresa)
	if err != nil {
		return nil, err
	}
	refreshTTL := time.Duration(uc.jwtCfg.RefreshExpDays) * 24 * time.Hour
	refreshToken, err := pkgjwt.Generate(uc.jwtCfg.RefreshSecret, uc.jwtCfg.Issuer, refreshTTL, payloadFor(usuario, empresa))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUsuarioResponse(usuario, empresa),
	}, nil
}

// Refresh valida el refresh token y emite un nuevo access token. Los claims
// se rederivan del estado actual en base de datos: un usuario o empresa
// desactivados invalidan el refresh aunque el token siga vigente, y un
// cambio de rol se refleja en el nuevo access token.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := pkgjwt.Parse(uc.jwtCfg.RefreshSecret, refreshToken)
	if err != nil {
		uc.log.Warn().Err(err).Msg("refresh: token inválido")
		return nil, domain.ErrTokenInvalido
	}

	usuario, empresa, err := uc.fetchActivos(ctx, claims.EmpresaID, claims.Subject)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.issueAccessToken(usuario, empresa)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

// ResolvePrincipal valida un access token y reconstruye el principal desde
// almacenamiento. No se confía en los claims para autorizar: usuario y
// empresa se releen y deben seguir activos.
func (uc *AuthUseCase) ResolvePrincipal(ctx context.Context, accessToken string) (*entity.Principal, error) {
	claims, err := pkgjwt.Parse(uc.jwtCfg.Secret, accessToken)
	if err != nil {
		return nil, domain.ErrTokenInvalido
	}

	usuario, empresa, err := uc.fetchActivos(ctx, claims.EmpresaID, claims.Subject)
	if err != nil {
		return nil, err
	}

	return &entity.Principal{
		ID:            usuario.ID,
		Username:      usuario.Username,
		Email:         usuario.Email,
		Nombre:        usuario.Nombre,
		Apellido:      usuario.Apellido,
		Rol:           usuario.Rol,
		EmpresaID:     usuario.EmpresaID,
		EmpresaCodigo: empresa.Codigo,
	}, nil
}

// fetchActivos relee usuario y empresa; ambos deben existir y estar activos.
func (uc *AuthUseCase) fetchActivos(ctx context.Context, empresaID, usuarioID string) (*entity.Usuario, *entity.Empresa, error) {
	usuario, err := uc.usuarioRepo.GetByID(ctx, empresaID, usuarioID)
	if err != nil {
		return nil, nil, err
	}
	empresa, err := uc.empresaRepo.GetByID(ctx, empresaID)
	if err != nil {
		return nil, nil, err
	}
	if usuario == nil || !usuario.Activo || empresa == nil || !empresa.Activa {
		uc.log.Warn().Str("empresa_id", empresaID).Str("usuario_id", usuarioID).Msg("credencial válida con usuario o empresa inactivos")
		return nil, nil, domain.ErrCuentaInactiva
	}
	return usuario, empresa, nil
}

func (uc *AuthUseCase) issueAccessToken(u *entity.Usuario, e *entity.Empresa) (string, error) {
	ttl := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	return pkgjwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, ttl, payloadFor(u, e))
}

func payloadFor(u *entity.Usuario, e *entity.Empresa) pkgjwt.Payload {
	return pkgjwt.Payload{
		UserID:        u.ID,
		Username:      u.Username,
		EmpresaID:     u.EmpresaID,
		EmpresaCodigo: e.Codigo,
		Rol:           u.Rol,
	}
}

func toUsuarioResponse(u *entity.Usuario, e *entity.Empresa) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Rol:      u.Rol,
		Empresa: dto.EmpresaResponse{
			ID:     e.ID,
			Codigo: e.Codigo,
			Nombre: e.Nombre,
		},
	}
}
