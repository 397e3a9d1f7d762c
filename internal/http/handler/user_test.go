package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/http/handler"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

var _ = Describe("UserHandler", func() {
	var (
		router *gin.Engine
		svc    *mockUserService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockUserService{}
		h := handler.NewUserHandler(svc)
		router.POST("/users", h.Create)
		router.GET("/users/:user_id", h.Get)
		router.PATCH("/users/:user_id/status", h.UpdateStatus)
		router.DELETE("/users/:user_id", h.Delete)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Create", func() {
		It("returns 201 with the created user", func() {
			svc.createFn = func(_ context.Context, email string, role model.UserRole) (*model.User, error) {
				return &model.User{ID: 42, Email: email, Role: model.UserRoleUser, Status: model.UserStatusPending}, nil
			}

			w := do(http.MethodPost, "/users", `{"email":"jane@example.com"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["status"]).To(Equal("pending"))
		})

		It("returns 400 on invalid request body", func() {
			Expect(do(http.MethodPost, "/users", `{`).Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects unknown roles", func() {
			Expect(do(http.MethodPost, "/users", `{"email":"a@b.co","role":"root"}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 409 on a duplicate email", func() {
			svc.createFn = func(context.Context, string, model.UserRole) (*model.User, error) {
				return nil, &pgconn.PgError{Code: "23505"}
			}
			Expect(do(http.MethodPost, "/users", `{"email":"a@b.co"}`).Code).To(Equal(http.StatusConflict))
		})

		It("returns 500 when service fails", func() {
			svc.createFn = func(context.Context, string, model.UserRole) (*model.User, error) {
				return nil, errors.New("boom")
			}
			Expect(do(http.MethodPost, "/users", `{"email":"a@b.co"}`).Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Get", func() {
		It("returns 404 for an unknown user", func() {
			Expect(do(http.MethodGet, "/users/7", "").Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			Expect(do(http.MethodGet, "/users/abc", "").Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("UpdateStatus", func() {
		It("passes status, actor and reason through", func() {
			var gotBy *int64
			var gotReason string
			svc.updateStatusFn = func(_ context.Context, id int64, status model.UserStatus, by *int64, reason string) (*model.User, error) {
				gotBy, gotReason = by, reason
				return &model.User{ID: id, Status: status}, nil
			}

			w := do(http.MethodPatch, "/users/7/status", `{"status":"suspended","updated_by":"1","reason":"fraud"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotBy).NotTo(BeNil())
			Expect(*gotBy).To(Equal(int64(1)))
			Expect(gotReason).To(Equal("fraud"))
		})
	})

	Describe("Delete", func() {
		It("returns 204", func() {
			Expect(do(http.MethodDelete, "/users/7", "").Code).To(Equal(http.StatusNoContent))
		})

		It("returns 404 when the user is gone", func() {
			svc.deleteFn = func(context.Context, int64, *int64, string) error { return service.ErrUserNotFound }
			Expect(do(http.MethodDelete, "/users/7", "").Code).To(Equal(http.StatusNotFound))
		})
	})
})
