package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/support"
)

func TestRoutes(t *testing.T) {
	cfg, err := support.Load(viper.New(), "")
	require.NoError(t, err)

	server, cleanup, err := memoryServer(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	api := httptest.NewServer(routes(server))
	defer api.Close()

	response, err := http.Post(api.URL+"/counter/alpha/instantiate", "application/json", strings.NewReader(`{"sender":"creator","msg":{"counter_value":3}}`))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusCreated, response.StatusCode)

	response, err = http.Get(api.URL + "/metrics")
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `we_contract_invocations_total{contract="counter",entry_point="instantiate",outcome="ok"} 1`)
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}
