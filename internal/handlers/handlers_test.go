package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookit/internal/auth"
	"bookit/internal/messaging"
	"bookit/internal/models"
	"bookit/internal/service"
	"bookit/internal/service/servicetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router   *gin.Engine
	theatres *servicetest.Theatres
	issuer   *auth.TokenIssuer
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	theatres := servicetest.NewTheatres()
	stores := service.Stores{
		Users:    &servicetest.Users{},
		Theatres: theatres,
		Shows:    servicetest.NewShows(theatres),
	}
	issuer := auth.NewTokenIssuer("handler-secret", 15*time.Minute, 30*24*time.Hour)
	h := NewHandlers(service.NewServices(stores, issuer, bcrypt.MinCost, messaging.NoopPublisher{}, nil))

	r := gin.New()
	r.GET("/", h.Root)
	api := r.Group("/api")
	{
		api.GET("/", h.ListAllShows)
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)

		api.GET("/theatres", h.ListTheatres)
		api.POST("/theatres", h.CreateTheatre)
		api.DELETE("/theatres", h.DeleteTheatre)
		api.GET("/theatres/:id", h.GetTheatre)
		api.PATCH("/theatres/:id", h.UpdateTheatre)

		api.GET("/theatres/:id/shows", h.ListTheatreShows)
		api.POST("/theatres/:id/shows", h.CreateShow)
		api.DELETE("/theatres/:id/shows", h.DeleteShow)
		api.GET("/theatres/:id/shows/:showId", h.GetShow)
		api.PATCH("/theatres/:id/shows/:showId", h.UpdateShow)
	}

	return &testEnv{router: r, theatres: theatres, issuer: issuer}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createTheatre(t *testing.T) models.Theatre {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/theatres", `{"_id":"client-id","name":"Grand","place":"Downtown","capacity":"200"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.DataResponse[models.Theatre]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	return resp.Data[0]
}

func (e *testEnv) createShow(t *testing.T, theatreID string) models.Show {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/theatres/"+theatreID+"/shows",
		`{"name":"Hamlet","rating":"PG","tags":"drama","ticketPrice":40,"theatre_id":"ignored"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.DataResponse[models.Show]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	return resp.Data[0]
}

func TestRoot(t *testing.T) {
	e := setupRouter(t)
	w := e.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>API for BookIT.</p>", w.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	e := setupRouter(t)

	w := e.do(t, http.MethodPost, "/api/signup", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "s3cret")
	assert.NotContains(t, w.Body.String(), "password")

	var signup models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.Equal(t, "alice", signup.User.Username)
	signupSub, err := e.issuer.ParseAccess(signup.User.Access)
	require.NoError(t, err)

	w = e.do(t, http.MethodPost, "/api/login", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	loginSub, err := e.issuer.ParseAccess(login.User.Access)
	require.NoError(t, err)
	assert.Equal(t, signupSub, loginSub)

	w = e.do(t, http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid username or password"}`, w.Body.String())
}

func TestSignupValidation(t *testing.T) {
	e := setupRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"username":`},
		{"missing password", `{"username":"bob"}`},
		{"missing username", `{"password":"x"}`},
		{"password over 72 bytes", `{"username":"bob","password":"` + strings.Repeat("p", 80) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCreateTheatreThenGet(t *testing.T) {
	e := setupRouter(t)
	created := e.createTheatre(t)

	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-id", created.ID)
	assert.Equal(t, "Grand", created.Name)
	assert.Equal(t, "Downtown", created.Place)
	assert.Equal(t, "200", created.Capacity)

	w := e.do(t, http.MethodGet, "/api/theatres/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Theatre
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestNumericCapacityIsStoredAsText(t *testing.T) {
	e := setupRouter(t)
	w := e.do(t, http.MethodPost, "/api/theatres", `{"name":"Grand","place":"Downtown","capacity":350}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"capacity":"350"`)
}

func TestListTheatres(t *testing.T) {
	e := setupRouter(t)

	w := e.do(t, http.MethodGet, "/api/theatres", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	e.createTheatre(t)
	e.createTheatre(t)

	w = e.do(t, http.MethodGet, "/api/theatres", "")
	var resp models.DataResponse[models.Theatre]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestGetTheatreNotFound(t *testing.T) {
	e := setupRouter(t)
	w := e.do(t, http.MethodGet, "/api/theatres/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"no such id found"}`, w.Body.String())
}

func TestPatchTheatre(t *testing.T) {
	e := setupRouter(t)
	th := e.createTheatre(t)
	path := "/api/theatres/" + th.ID

	t.Run("empty body", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Theatre
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, th, got)
	})

	t.Run("empty object", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, path, `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Theatre
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, th, got)
	})

	t.Run("field sticks across patches", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, path, `{"name":"Royal"}`)
		require.Equal(t, http.StatusOK, w.Code)
		w = e.do(t, http.MethodPatch, path, `{"place":"Uptown","name":""}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Theatre
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Royal", got.Name)
		assert.Equal(t, "Uptown", got.Place)
		assert.Equal(t, "200", got.Capacity)
	})

	t.Run("missing theatre", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, "/api/theatres/missing", `{"name":"X"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteTheatre(t *testing.T) {
	e := setupRouter(t)

	t.Run("unknown id is success", func(t *testing.T) {
		w := e.do(t, http.MethodDelete, "/api/theatres", `{"_id":"unknown-id"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"error":false}`, w.Body.String())
	})

	t.Run("missing _id", func(t *testing.T) {
		w := e.do(t, http.MethodDelete, "/api/theatres", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("theatre with shows conflicts", func(t *testing.T) {
		th := e.createTheatre(t)
		e.createShow(t, th.ID)

		w := e.do(t, http.MethodDelete, "/api/theatres", `{"_id":"`+th.ID+`"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("existing theatre", func(t *testing.T) {
		th := e.createTheatre(t)
		w := e.do(t, http.MethodDelete, "/api/theatres", `{"_id":"`+th.ID+`"}`)
		assert.JSONEq(t, `{"error":false}`, w.Body.String())

		w = e.do(t, http.MethodGet, "/api/theatres/"+th.ID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShows(t *testing.T) {
	e := setupRouter(t)
	a := e.createTheatre(t)
	b := e.createTheatre(t)
	show := e.createShow(t, a.ID)
	e.createShow(t, b.ID)

	assert.Equal(t, a.ID, show.TheatreID)
	require.NotNil(t, show.Rating)
	assert.Equal(t, "PG", *show.Rating)

	t.Run("create under missing theatre", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/theatres/ghost/shows", `{"name":"X","tags":"t","ticketPrice":1}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create requires ticketPrice", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/theatres/"+a.ID+"/shows", `{"name":"X","tags":"t"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list by theatre", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/theatres/"+a.ID+"/shows", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.DataResponse[models.Show]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, show.ID, resp.Data[0].ID)
	})

	t.Run("list all", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.DataResponse[models.Show]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("get ignores theatre segment", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/theatres/"+b.ID+"/shows/"+show.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ticketPrice":40`)
	})

	t.Run("patch zero price and reassign", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, "/api/theatres/"+a.ID+"/shows/"+show.ID, `{"ticketPrice":0,"theatre_id":"`+b.ID+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Show
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 0, got.TicketPrice)
		assert.Equal(t, b.ID, got.TheatreID)
		assert.Equal(t, "Hamlet", got.Name)
	})

	t.Run("patch to missing theatre conflicts", func(t *testing.T) {
		w := e.do(t, http.MethodPatch, "/api/theatres/"+b.ID+"/shows/"+show.ID, `{"theatre_id":"ghost"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get missing show", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/theatres/"+a.ID+"/shows/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete by body id", func(t *testing.T) {
		w := e.do(t, http.MethodDelete, "/api/theatres/"+a.ID+"/shows", `{"_id":"`+show.ID+`"}`)
		assert.JSONEq(t, `{"error":false}`, w.Body.String())

		w = e.do(t, http.MethodDelete, "/api/theatres/"+a.ID+"/shows", `{"_id":"`+show.ID+`"}`)
		assert.JSONEq(t, `{"error":false}`, w.Body.String())

		w = e.do(t, http.MethodGet, "/api/theatres/"+a.ID+"/shows/"+show.ID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	e := setupRouter(t)
	e.theatres.ListErr = errors.New("pq: connection refused to 10.0.0.5")

	w := e.do(t, http.MethodGet, "/api/theatres", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to list theatres"}`, w.Body.String())
}
