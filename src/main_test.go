package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"stb/src/db"
	"stb/src/middlewares"
	"stb/src/types"
	"stb/src/utils"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	Token string
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("matchdate", matchDateValidatorFunc)
	}
	token, err := utils.GenerateJWT("gatekeeper", 1, "user")
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.Token = token
}

// Every test gets a fresh mock so expectations never bleed across tests.
func (s *TestSuite) SetupTest() {
	d, mock := db.GetMockDB()
	s.DB = d
	s.Mock = mock
}

func (s *TestSuite) userColumns() []string {
	return []string{"id", "username", "email", "first_name", "last_name", "password_hash", "role"}
}

func (s *TestSuite) expectAuthUser(role string) {
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows(s.userColumns()).
			AddRow(1, "gatekeeper", "gatekeeper@example.com", "Gate", "Keeper", "x", role))
}

func (s *TestSuite) expectScanLogWrite() {
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "scan_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	s.Mock.ExpectCommit()
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestAuthRoutes() {
	router := setupRouter()
	guestAuthRoutes(router)

	s.Run("Should reject registration with mismatched passwords", func() {
		jbody := map[string]any{
			"username":         "someone",
			"email":            "someone@example.com",
			"password":         "password1234",
			"password_confirm": "different1234",
		}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject login for unknown user", func() {
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnRows(sqlmock.NewRows(s.userColumns()))

		jbody := map[string]any{
			"username": "nobody",
			"password": "password1234",
		}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Equal(s.T(), "incorrect credentials", errMsg)
	})
}

func (s *TestSuite) TestEventRoutes() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should return list of events with 200 status", func() {
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "time", "status"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/events", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.True(s.T(), gjson.Get(string(rbytes), "data").Exists())
	})

	s.Run("Should return 404 for a missing event", func() {
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/events/42", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestVerifyRoute() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should reject a malformed code", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/tickets/verify/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should report an unknown ticket as not found", func() {
		code := uuid.NewString()
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		s.expectScanLogWrite()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/tickets/verify/%s", code), nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.False(s.T(), gjson.Get(string(rbytes), "valid").Bool())
	})

	s.Run("Should report an active ticket as valid", func() {
		code := uuid.NewString()
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_uuid", "event_id", "ticket_type", "price", "quantity", "status"}).
				AddRow(1, code, 7, "VIP", float32(100), 1, types.TICKET_ACTIVE))
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "time"}).
				AddRow(7, "derby", time.Now().Add(2*time.Hour)))
		s.expectScanLogWrite()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/tickets/verify/%s", code), nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		assert.True(s.T(), gjson.Get(sjson, "valid").Bool())
		assert.Equal(s.T(), code, gjson.Get(sjson, "ticket.ticket_uuid").String())
	})
}

func (s *TestSuite) TestConsumeRoute() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should admit an active ticket once", func() {
		code := uuid.NewString()
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_uuid", "event_id", "status"}).
				AddRow(1, code, 7, types.TICKET_ACTIVE))
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "time"}).
				AddRow(7, "derby", time.Now().Add(2*time.Hour)))
		s.Mock.ExpectBegin()
		s.Mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tickets" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		s.Mock.ExpectCommit()
		s.expectScanLogWrite()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/tickets/verify/%s", code), nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		assert.True(s.T(), gjson.Get(sjson, "success").Bool())
		assert.True(s.T(), gjson.Get(sjson, "used_at").Exists())
	})

	s.Run("Should refuse a used ticket with 409", func() {
		code := uuid.NewString()
		usedAt := time.Now().Add(-time.Hour)
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_uuid", "event_id", "status", "used_at"}).
				AddRow(1, code, 7, types.TICKET_USED, usedAt))
		s.expectScanLogWrite()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/tickets/verify/%s", code), nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 409, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.False(s.T(), gjson.Get(string(rbytes), "success").Bool())
	})
}

func (s *TestSuite) TestTicketRoutes() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	ticketHandlers(apiv1)

	s.Run("Should require a token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/tickets", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should reject a bare Bearer header", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/tickets", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return the caller's tickets", func() {
		s.expectAuthUser("user")
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/tickets", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Should purchase tickets for an event", func() {
		s.expectAuthUser("user")
		s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "time"}).
				AddRow(7, "derby", time.Now().Add(48*time.Hour)))
		s.Mock.ExpectBegin()
		s.Mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tickets"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
		s.Mock.ExpectCommit()

		jbody := map[string]any{
			"event_id": 7,
			"category": "STANDARD",
			"quantity": 2,
		}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/tickets", strings.NewReader(string(sbody)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 201, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(2), gjson.Get(sjson, "data.#").Int())
		assert.Equal(s.T(), "STANDARD", gjson.Get(sjson, "data.0.ticket_type").String())
	})

	s.Run("Should reject an unknown category", func() {
		s.expectAuthUser("user")

		jbody := map[string]any{
			"event_id": 7,
			"category": "DIAMOND",
		}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/tickets", strings.NewReader(string(sbody)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestAdminGuard() {
	router := setupRouter()
	admin := apiv1Group(router).Group("/admin")
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	adminEventHandlers(admin)

	s.expectAuthUser("user")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/admin/events/1", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
