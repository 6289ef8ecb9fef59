package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/config"
	dbpkg "github.com/petshopcentral/petshop-api/internal/db"
	"github.com/petshopcentral/petshop-api/internal/routes"
)

// newTestServer sobe a API completa contra um banco em memória. Mercado
// Pago, S3 e Redis ficam desabilitados (token/credenciais vazios), então
// as rotas que dependem deles respondem 503.
//
// O banco usa cache compartilhado com nome único por servidor: o worker de
// auditoria escreve por outra conexão do pool e precisa enxergar o mesmo
// schema.
func newTestServer(t *testing.T, viaCEPBaseURL string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "segredo-de-teste",
		ServerPort:    "3333",
		ViaCEPBaseURL: viaCEPBaseURL,
	}

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// --------- Fixtures ---------

func registerAccount(t *testing.T, r *gin.Engine, cpf, email string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/usuarios", "", gin.H{
		"cpf":       cpf,
		"nome":      "Maria",
		"sobrenome": "Silva",
		"email":     email,
		"senha":     "senha123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func loginAccount(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/usuarios/login", "", gin.H{
		"email": email,
		"senha": "senha123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func registerStaff(t *testing.T, r *gin.Engine, id, email, role string) string {
	t.Helper()

	body := gin.H{
		"idFuncionario": id,
		"nome":          "Carlos",
		"sobrenome":     "Souza",
		"email":         email,
		"senha":         "senha123",
	}
	if role != "" {
		body["funcao"] = role
	}

	w := doJSON(t, r, http.MethodPost, "/api/funcionarios", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/funcionarios/login", "", gin.H{
		"email": email,
		"senha": "senha123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createPet(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/pets", token, gin.H{
		"nome": name,
		"tipo": "Cachorro",
		"raca": "Vira-lata",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, _ := decode(t, w)["idPet"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

func createService(t *testing.T, r *gin.Engine, staffToken, name string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/servicos", staffToken, gin.H{
		"nome":      name,
		"preco":     80.0,
		"categoria": "Estetica",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, _ := decode(t, w)["idServico"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

// --------- Contas ---------

func TestAccountRegisterAndLogin(t *testing.T) {
	r, _ := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")

	// CPF repetido
	w := doJSON(t, r, http.MethodPost, "/api/usuarios", "", gin.H{
		"cpf":       "12345678901",
		"nome":      "Maria",
		"sobrenome": "Silva",
		"email":     "outra@example.com",
		"senha":     "senha123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "account_already_exists", decode(t, w)["error_code"])

	// senha errada
	w = doJSON(t, r, http.MethodPost, "/api/usuarios/login", "", gin.H{
		"email": "maria@example.com",
		"senha": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error_code"])

	// login correto marca logado = "1"
	w = doJSON(t, r, http.MethodPost, "/api/usuarios/login", "", gin.H{
		"email": "maria@example.com",
		"senha": "senha123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "1", user["logado"])
	assert.NotContains(t, w.Body.String(), "senha123")
}

func TestAccountRegisterValidation(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/usuarios", "", gin.H{
		"cpf":       "123",
		"nome":      "M",
		"sobrenome": "Silva",
		"email":     "nao-eh-email",
		"senha":     "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "validation_error", body["error_code"])
	errs, _ := body["errors"].([]any)
	assert.NotEmpty(t, errs)
}

func TestRegisterSurfacesDatabaseFailure(t *testing.T) {
	r, db := newTestServer(t, "")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doJSON(t, r, http.MethodPost, "/api/usuarios", "", gin.H{
		"cpf":       "12345678901",
		"nome":      "Maria",
		"sobrenome": "Silva",
		"email":     "maria@example.com",
		"senha":     "senha123",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decode(t, w)["error_code"])

	w = doJSON(t, r, http.MethodPost, "/api/funcionarios", "", gin.H{
		"idFuncionario": "func01",
		"nome":          "Carlos",
		"sobrenome":     "Souza",
		"email":         "carlos@example.com",
		"senha":         "senha123",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAccountLogoutIsIdempotent(t *testing.T) {
	r, db := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	token := loginAccount(t, r, "maria@example.com")

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/usuarios/logout", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var loggedIn string
	require.NoError(t, db.Table("accounts").
		Select("logged_in").
		Where("cpf = ?", "12345678901").
		Scan(&loggedIn).Error)
	assert.Equal(t, "0", loggedIn)
}

func TestAccountListRequiresStaff(t *testing.T) {
	r, _ := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/usuarios", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	w = doJSON(t, r, http.MethodGet, "/api/usuarios", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doJSON(t, r, http.MethodGet, "/api/pets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --------- Pets ---------

func TestPetRoundTrip(t *testing.T) {
	r, _ := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	token := loginAccount(t, r, "maria@example.com")

	petID := createPet(t, r, token, "Rex")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/pets/%d", petID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Rex", body["nome"])
	assert.Nil(t, body["consulta"])
	assert.Nil(t, body["hotel"])
	assert.Equal(t, "12345678901", body["idUsuario"])
}

func TestPetIsolationBetweenAccounts(t *testing.T) {
	r, _ := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	registerAccount(t, r, "98765432100", "joao@example.com")

	mariaToken := loginAccount(t, r, "maria@example.com")
	joaoToken := loginAccount(t, r, "joao@example.com")

	petID := createPet(t, r, mariaToken, "Rex")

	// o pet da Maria não aparece para o João
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/pets/%d", petID), joaoToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/pets", joaoToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])
}

func TestPetSchedule(t *testing.T) {
	r, _ := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	token := loginAccount(t, r, "maria@example.com")
	petID := createPet(t, r, token, "Rex")

	when := time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC)

	w := doJSON(t, r, http.MethodPost, "/api/pets/agendar", token, gin.H{
		"petId":       petID,
		"tipoServico": "consulta",
		"data":        when,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.NotNil(t, body["consulta"])
	assert.Nil(t, body["hotel"])
}

// --------- Produtos ---------

func TestProductPermissions(t *testing.T) {
	r, _ := newTestServer(t, "")

	creatorToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	otherToken := registerStaff(t, r, "func02", "ana@example.com", "")
	managerToken := registerStaff(t, r, "func03", "gerente@example.com", "Gerente")

	w := doJSON(t, r, http.MethodPost, "/api/produtos", creatorToken, gin.H{
		"nome":  "Ração Premium",
		"preco": 99.9,
		"tipo":  "Cachorro",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := decode(t, w)["idPro"].(float64)

	path := fmt.Sprintf("/api/produtos/%.0f", productID)

	// outro funcionário comum não altera
	w = doJSON(t, r, http.MethodPatch, path, otherToken, gin.H{"preco": 79.9})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// o criador altera
	w = doJSON(t, r, http.MethodPatch, path, creatorToken, gin.H{"preco": 89.9})
	assert.Equal(t, http.StatusOK, w.Code)

	// gerente também altera
	w = doJSON(t, r, http.MethodPatch, path, managerToken, gin.H{"preco": 59.9})
	assert.Equal(t, http.StatusOK, w.Code)

	// outro funcionário comum não exclui
	w = doJSON(t, r, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, creatorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductInvalidType(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")

	w := doJSON(t, r, http.MethodPost, "/api/produtos", staffToken, gin.H{
		"nome":  "Ração",
		"preco": 10.0,
		"tipo":  "Dinossauro",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_product_type", decode(t, w)["error_code"])
}

func TestProductListByTypeIsPublic(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")

	for _, p := range []gin.H{
		{"nome": "Ração de cachorro", "preco": 99.9, "tipo": "Cachorro"},
		{"nome": "Arranhador", "preco": 49.9, "tipo": "Gato"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/produtos", staffToken, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/produtos/tipo/Gato", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestProductCheckoutUnavailableWithoutToken(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/produtos", staffToken, gin.H{
		"nome":  "Ração",
		"preco": 10.0,
		"tipo":  "Cachorro",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decode(t, w)["idPro"].(float64)

	w = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/produtos/%.0f/checkout", productID), userToken,
		gin.H{"quantidade": 1})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "payments_disabled", decode(t, w)["error_code"])
}

// --------- Serviços e agendamentos ---------

func TestAppointmentSlotConflict(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	petID := createPet(t, r, userToken, "Rex")
	serviceID := createService(t, r, staffToken, "Banho e tosa")

	when := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	book := gin.H{
		"idPet":     petID,
		"idServico": serviceID,
		"dataHora":  when,
	}

	w := doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, book)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	apID := decode(t, w)["idAgendamento"].(float64)

	// mesmo horário, mesmo serviço: conflito
	w = doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, book)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "slot_taken", decode(t, w)["error_code"])

	// cancelado libera o horário
	w = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/agendamentos/%.0f/status", apID), userToken,
		gin.H{"status": "Cancelado"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, book)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAppointmentStatusFlow(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	petID := createPet(t, r, userToken, "Rex")
	serviceID := createService(t, r, staffToken, "Banho e tosa")

	w := doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, gin.H{
		"idPet":     petID,
		"idServico": serviceID,
		"dataHora":  time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	apID := decode(t, w)["idAgendamento"].(float64)
	path := fmt.Sprintf("/api/agendamentos/%.0f/status", apID)

	// usuário não confirma, só cancela
	w = doJSON(t, r, http.MethodPatch, path, userToken, gin.H{"status": "Confirmado"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// funcionário segue o fluxo completo
	for _, status := range []string{"Confirmado", "EmAndamento", "Concluido"} {
		w = doJSON(t, r, http.MethodPatch, path, staffToken, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// terminal: nada mais muda
	w = doJSON(t, r, http.MethodPatch, path, staffToken, gin.H{"status": "Cancelado"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status_transition", decode(t, w)["error_code"])
}

func TestServiceDeactivateBlockedByActiveAppointments(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	petID := createPet(t, r, userToken, "Rex")
	serviceID := createService(t, r, staffToken, "Banho e tosa")
	servicePath := fmt.Sprintf("/api/servicos/%d", serviceID)

	w := doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, gin.H{
		"idPet":     petID,
		"idServico": serviceID,
		"dataHora":  time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	apID := decode(t, w)["idAgendamento"].(float64)

	w = doJSON(t, r, http.MethodDelete, servicePath, staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "service_has_active_appointments", decode(t, w)["error_code"])

	w = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/agendamentos/%.0f/status", apID), userToken,
		gin.H{"status": "Cancelado"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, servicePath, staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// desativado sai da listagem de ativos e recusa novos agendamentos
	w = doJSON(t, r, http.MethodGet, "/api/servicos?ativo=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	w = doJSON(t, r, http.MethodPost, "/api/agendamentos", userToken, gin.H{
		"idPet":     petID,
		"idServico": serviceID,
		"dataHora":  time.Date(2026, 11, 1, 14, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "service_inactive", decode(t, w)["error_code"])
}

// --------- CEP ---------

func TestCEPLookup(t *testing.T) {
	viacep := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/ws/01001000/json/":
			json.NewEncoder(w).Encode(gin.H{
				"cep":        "01001-000",
				"logradouro": "Praça da Sé",
				"bairro":     "Sé",
				"localidade": "São Paulo",
				"uf":         "SP",
			})
		default:
			json.NewEncoder(w).Encode(gin.H{"erro": true})
		}
	}))
	defer viacep.Close()

	r, _ := newTestServer(t, viacep.URL)

	w := doJSON(t, r, http.MethodGet, "/api/cep/01001-000", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, false, body["cache"])
	endereco, _ := body["endereco"].(map[string]any)
	require.NotNil(t, endereco)
	assert.Equal(t, "São Paulo", endereco["cidade"])

	// segunda consulta vem do banco
	w = doJSON(t, r, http.MethodGet, "/api/cep/01001000", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["cache"])

	// CEP inexistente
	w = doJSON(t, r, http.MethodGet, "/api/cep/99999999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// formato inválido
	w = doJSON(t, r, http.MethodGet, "/api/cep/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --------- Relatórios ---------

func TestReportsDashboard(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")
	createPet(t, r, userToken, "Rex")

	w := doJSON(t, r, http.MethodGet, "/api/relatorios/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/relatorios/dashboard", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 1, body["usuarios"])
	assert.EqualValues(t, 1, body["usuariosLogados"])
	assert.EqualValues(t, 1, body["funcionarios"])
	assert.EqualValues(t, 1, body["pets"])
}

func TestReportsPetsByType(t *testing.T) {
	r, _ := newTestServer(t, "")

	staffToken := registerStaff(t, r, "func01", "carlos@example.com", "")
	registerAccount(t, r, "12345678901", "maria@example.com")
	userToken := loginAccount(t, r, "maria@example.com")

	createPet(t, r, userToken, "Rex")
	createPet(t, r, userToken, "Bolt")

	w := doJSON(t, r, http.MethodGet, "/api/relatorios/pets-por-tipo", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	rows, _ := body["data"].([]any)
	require.Len(t, rows, 1)
	row, _ := rows[0].(map[string]any)
	assert.Equal(t, "Cachorro", row["tipo"])
	assert.EqualValues(t, 2, row["total"])
}

// --------- Auditoria ---------

func TestMutationsArePersistedToAuditLog(t *testing.T) {
	r, db := newTestServer(t, "")

	registerAccount(t, r, "12345678901", "maria@example.com")
	token := loginAccount(t, r, "maria@example.com")
	petID := createPet(t, r, token, "Rex")

	// a escrita é assíncrona (fila + worker); espera a linha aparecer
	require.Eventually(t, func() bool {
		var count int64
		if err := db.Table("audit_logs").
			Where("action = ? AND entity = ? AND entity_id = ?", "pet_created", "pet", petID).
			Count(&count).Error; err != nil {
			return false
		}
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	var actorID string
	require.NoError(t, db.Table("audit_logs").
		Select("actor_id").
		Where("action = ?", "pet_created").
		Scan(&actorID).Error)
	assert.Equal(t, "12345678901", actorID)

	// a trilha também cobre o cadastro
	require.Eventually(t, func() bool {
		var count int64
		err := db.Table("audit_logs").
			Where("action = ? AND actor_id = ?", "account_registered", "12345678901").
			Count(&count).Error
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// --------- Funcionários ---------

func TestStaffRoleUpdateRequiresMaster(t *testing.T) {
	r, _ := newTestServer(t, "")

	masterToken := registerStaff(t, r, "master01", "master@example.com", "Master")
	funcToken := registerStaff(t, r, "func01", "carlos@example.com", "")

	w := doJSON(t, r, http.MethodPatch, "/api/funcionarios/master01/funcao", funcToken,
		gin.H{"funcao": "Default"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/funcionarios/func01/funcao", masterToken,
		gin.H{"funcao": "Veterinario"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Veterinario", decode(t, w)["funcao"])

	w = doJSON(t, r, http.MethodPatch, "/api/funcionarios/func01/funcao", masterToken,
		gin.H{"funcao": "Chefe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffDeleteRequiresMaster(t *testing.T) {
	r, _ := newTestServer(t, "")

	masterToken := registerStaff(t, r, "master01", "master@example.com", "Master")
	registerStaff(t, r, "func01", "carlos@example.com", "")
	managerToken := registerStaff(t, r, "ger01", "gerente@example.com", "Gerente")

	w := doJSON(t, r, http.MethodDelete, "/api/funcionarios/func01", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// master não exclui a si mesmo
	w = doJSON(t, r, http.MethodDelete, "/api/funcionarios/master01", masterToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/funcionarios/func01", masterToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
