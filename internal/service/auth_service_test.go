package service_test

import (
	"context"
	"testing"

	"panifpro/internal/config"
	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"
	"panifpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// stubUsuarioRepo is an in-memory UsuarioRepository.
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
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Ativo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok || u.EmpresaID != empresaID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.EmpresaID == empresaID && u.Ativo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.EmpresaID == empresaID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, empresaID, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok || u.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	u.Ativo = false
	return nil
}

func (r *stubUsuarioRepo) Reativar(_ context.Context, empresaID, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok || u.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	u.Ativo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func novoAuthFixture(t *testing.T) (service.AuthService, *stubUsuarioRepo, uuid.UUID) {
	t.Helper()
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo, uuid.New()
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, empresaID uuid.UUID, username, password, papel string) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		EmpresaID:    empresaID,
		Username:     username,
		Nome:         "Usuário de Teste",
		PasswordHash: string(hash),
		Papel:        papel,
		Ativo:        true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u.ID
}

func TestLogin_CredenciaisValidas(t *testing.T) {
	svc, repo, empresaID := novoAuthFixture(t)
	seedUsuario(t, repo, empresaID, "padeiro", "massa123", "producao")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "padeiro", Password: "massa123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "producao", resp.User.Papel)
}

func TestLogin_SenhaErrada(t *testing.T) {
	svc, repo, empresaID := novoAuthFixture(t)
	seedUsuario(t, repo, empresaID, "padeiro", "massa123", "producao")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "padeiro", Password: "errada"})
	require.Error(t, err)
	assert.Equal(t, "credenciais inválidas", err.Error())
}

func TestLogin_UsuarioInativo(t *testing.T) {
	svc, repo, empresaID := novoAuthFixture(t)
	id := seedUsuario(t, repo, empresaID, "padeiro", "massa123", "producao")
	require.NoError(t, repo.SoftDelete(context.Background(), empresaID, id))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "padeiro", Password: "massa123"})
	require.Error(t, err)
	assert.Equal(t, "credenciais inválidas", err.Error())
}

func TestRefresh_ReemiteTokens(t *testing.T) {
	svc, repo, empresaID := novoAuthFixture(t)
	seedUsuario(t, repo, empresaID, "gerente", "forno456", "admin")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gerente", Password: "forno456"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, "gerente", renovado.User.Username)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _, _ := novoAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "nao-e-um-jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token inválido")
}

func TestCriarUsuario_HashEPapel(t *testing.T) {
	svc, repo, empresaID := novoAuthFixture(t)

	resp, err := svc.CriarUsuario(context.Background(), empresaID, dto.CriarUsuarioRequest{
		Username: "balconista",
		Nome:     "Balconista da Manhã",
		Password: "paozinho",
		Papel:    "consulta",
	})
	require.NoError(t, err)
	assert.Equal(t, "consulta", resp.Papel)
	assert.True(t, resp.Ativo)

	salvo, err := repo.FindByUsername(context.Background(), "balconista")
	require.NoError(t, err)
	assert.NotEqual(t, "paozinho", salvo.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(salvo.PasswordHash), []byte("paozinho")))
}
