package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petshopcentral/petshop-api/internal/httperr"
)

func TestClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ws/01001000/json/":
			w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			// forma atual da API: erro como string
			w.Write([]byte(`{"erro": "true"}`))
		case "/ws/88888888/json/":
			// forma antiga: erro booleano
			w.Write([]byte(`{"erro": true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	result, err := client.Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "01001000", result.CEP)
	assert.Equal(t, "São Paulo", result.City)
	assert.Equal(t, "SP", result.State)

	for _, cep := range []string{"99999999", "88888888"} {
		_, err = client.Lookup(context.Background(), cep)
		require.Error(t, err)
		assert.True(t, httperr.IsBusiness(err, "cep_not_found"), cep)
	}

	_, err = client.Lookup(context.Background(), "00000000")
	assert.Error(t, err)
}
