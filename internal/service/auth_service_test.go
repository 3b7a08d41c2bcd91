package service

import (
	"context"
	"testing"

	"loteparatodos/internal/config"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if incluirInactivos || u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Setup ─────────────────────────────────────────────────────────────────────

func setupAuthTest(t *testing.T) (AuthService, *stubUsuarioRepo) {
	t.Helper()
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.Usuario{
		Username:     "vendedor@test",
		Nombre:       "Vendedor Test",
		PasswordHash: string(hash),
		Rol:          "vendedor",
		Activo:       true,
	}))
	return NewAuthService(repo, cfg), repo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	svc, _ := setupAuthTest(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "vendedor@test",
		Password: "secreta123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "vendedor", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "vendedor@test",
		Password: "otra",
	})
	require.Error(t, err)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "nadie@test",
		Password: "secreta123",
	})
	require.Error(t, err)
}

func TestRefresh_Exitoso(t *testing.T) {
	svc, _ := setupAuthTest(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "vendedor@test",
		Password: "secreta123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	svc, repo := setupAuthTest(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "vendedor@test",
		Password: "secreta123",
	})
	require.NoError(t, err)

	for id := range repo.usuarios {
		require.NoError(t, repo.SoftDelete(context.Background(), id))
	}

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestCrearUsuario_ConEmprendimiento(t *testing.T) {
	svc, repo := setupAuthTest(t)

	eid := uuid.NewString()
	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username:         "super@test",
		Nombre:           "Supervisora",
		Password:         "clave12345",
		Rol:              "supervisor",
		EmprendimientoID: &eid,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EmprendimientoID)
	assert.Equal(t, eid, *resp.EmprendimientoID)

	id := uuid.MustParse(resp.ID)
	stored := repo.usuarios[id]
	// Nunca se guarda la password en claro
	assert.NotEqual(t, "clave12345", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave12345")))
}

func TestListarUsuarios_FiltraInactivos(t *testing.T) {
	svc, repo := setupAuthTest(t)
	require.NoError(t, repo.Create(context.Background(), &model.Usuario{
		Username: "baja@test", Nombre: "Baja", Rol: "vendedor", Activo: false,
	}))

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
