package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "MG Road Bangalore", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"display_name":"MG Road, Bengaluru, Karnataka, 560001, India",
			"address":{"city":"Bengaluru","state":"Karnataka","postcode":"560001"}}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Geocode(context.Background(), "MG Road Bangalore")
	require.NoError(t, err)

	assert.Equal(t, "Bengaluru", res.City)
	assert.Equal(t, "Karnataka", res.State)
	assert.Equal(t, "560001", res.PostalCode)
	assert.Contains(t, res.FormattedAddress, "MG Road")
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Geocode(context.Background(), "nowhere at all")
	assert.Error(t, err)
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Write([]byte(`{"display_name":"Connaught Place, New Delhi, 110001, India",
			"address":{"town":"New Delhi","state":"Delhi","postcode":"110001"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.ReverseGeocode(context.Background(), 28.6315, 77.2167)
	require.NoError(t, err)

	// town is used when no city is present
	assert.Equal(t, "New Delhi", res.City)
	assert.Equal(t, "110001", res.PostalCode)
}

func TestGeocodeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}

func TestGeocodeUnreachableProvider(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}
