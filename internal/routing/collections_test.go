package routing

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

var (
	noteColumnNames    = []string{"id", "user_id", "language_id", "content", "created_at", "updated_at", "inserted"}
	commentColumnNames = []string{"id", "user_id", "username", "language_id", "content", "likes_count", "created_at",
		"updated_at", "liked"}
)

func TestFavorites(t *testing.T) {
	user := testUser(t, "Secret123!")

	t.Run("Add", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(1).WillReturnRows(languageRows(1, "HTML"))
		poolMock.ExpectQuery("INSERT INTO favorites").WithArgs(user.ID, 1).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(fixedTime))

		expect.POST("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 1}).
			Expect().Status(http.StatusCreated).
			JSON().IsEqual(map[string]interface{}{
				"userId":     user.ID.String(),
				"languageId": 1,
				"createdAt":  fixedTimeString,
			})
	})

	t.Run("AddIgnoresUserIdInBody", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		foreignId := uuid.New()
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(1).WillReturnRows(languageRows(1, "HTML"))
		poolMock.ExpectQuery("INSERT INTO favorites").WithArgs(user.ID, 1).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(fixedTime))

		expect.POST("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 1, "userId": foreignId.String()}).
			Expect().Status(http.StatusCreated).
			JSON().Object().HasValue("userId", user.ID.String())
	})

	t.Run("AddTwice", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(1).WillReturnRows(languageRows(1, "HTML"))
		poolMock.ExpectQuery("INSERT INTO favorites").WithArgs(user.ID, 1).
			WillReturnError(uniqueViolation("favorites_pkey"))

		expect.POST("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 1}).
			Expect().Status(http.StatusConflict).
			JSON().IsEqual(errorBody("Already favorited"))
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(99).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

		expect.POST("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 99}).
			Expect().Status(http.StatusNotFound).
			JSON().IsEqual(errorBody("Language not found"))
	})

	t.Run("InvalidLanguageId", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.POST("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": "one"}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Invalid languageId"))
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectExec("DELETE FROM favorites WHERE user_id = .+ AND language_id").WithArgs(user.ID, 4).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		expect.DELETE("/api/user/favorites").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 4}).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"message": "Removed from favorites"})
	})

	t.Run("RemoveAllThenList", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		token := bearer(t, jwtMgr, user)
		poolMock.ExpectExec("DELETE FROM favorites WHERE user_id").WithArgs(user.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		poolMock.ExpectQuery("FROM favorites f").WithArgs(user.ID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

		expect.DELETE("/api/user/favorites/all").WithHeader("Authorization", token).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"message": "All favorites removed"})
		expect.GET("/api/user/favorites").WithHeader("Authorization", token).
			Expect().Status(http.StatusOK).
			JSON().Array().IsEmpty()
	})
}

func TestNotes(t *testing.T) {
	user := testUser(t, "Secret123!")
	noteId := uuid.New()

	upsert := func(t *testing.T, inserted bool, status int) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(2).WillReturnRows(languageRows(2, "CSS"))
		poolMock.ExpectQuery("INSERT INTO notes").WithArgs(pgxmock.AnyArg(), user.ID, 2, "flexbox <3").
			WillReturnRows(pgxmock.NewRows(noteColumnNames).
				AddRow(noteId, user.ID, 2, "flexbox <3", fixedTime, fixedTime, inserted))

		expect.POST("/api/user/notes").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 2, "content": "flexbox <3"}).
			Expect().Status(status).
			JSON().IsEqual(map[string]interface{}{
				"languageId": 2,
				"content":    "flexbox <3",
				"createdAt":  fixedTimeString,
				"updatedAt":  fixedTimeString,
			})
	}

	t.Run("Create", func(t *testing.T) { upsert(t, true, http.StatusCreated) })
	t.Run("Update", func(t *testing.T) { upsert(t, false, http.StatusOK) })

	t.Run("ContentTooLong", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.POST("/api/user/notes").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 2, "content": strings.Repeat("a", 10001)}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Note content must be between 1 and 10000 characters"))
	})

	t.Run("GetMissingReturnsEmptyNote", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM notes WHERE user_id").WithArgs(user.ID, 3).
			WillReturnRows(pgxmock.NewRows(noteColumnNames[:6]))

		expect.GET("/api/user/notes").WithQuery("languageId", 3).
			WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"languageId": 3, "content": ""})
	})

	t.Run("GetIgnoresUserIdInQuery", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM notes WHERE user_id").WithArgs(user.ID, 3).
			WillReturnRows(pgxmock.NewRows(noteColumnNames[:6]))

		expect.GET("/api/user/notes").WithQuery("languageId", 3).WithQuery("userId", uuid.NewString()).
			WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"languageId": 3, "content": ""})
	})

	t.Run("GetInvalidLanguageId", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.GET("/api/user/notes").WithQuery("languageId", "css").
			WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Invalid languageId"))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectExec("DELETE FROM notes WHERE user_id = .+ AND language_id").WithArgs(user.ID, 5).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		expect.DELETE("/api/user/notes/5").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusNotFound).
			JSON().IsEqual(errorBody("Note not found"))
	})

	t.Run("DeleteAll", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectExec("DELETE FROM notes WHERE user_id").WithArgs(user.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		expect.DELETE("/api/user/notes/all").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"message": "All notes deleted"})
	})
}

func TestComments(t *testing.T) {
	user := testUser(t, "Secret123!")
	commentId := uuid.New()

	t.Run("ListAnonymous", func(t *testing.T) {
		expect, poolMock, _ := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(1).WillReturnRows(languageRows(1, "HTML"))
		poolMock.ExpectQuery("SELECT COUNT").WithArgs(1).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		poolMock.ExpectQuery("FROM comments c").WithArgs(1, uuid.Nil, 10, 0).
			WillReturnRows(pgxmock.NewRows(commentColumnNames).
				AddRow(commentId, user.ID, "alice", 1, "Semantic tags first", 2, fixedTime, fixedTime, false))

		expect.GET("/api/comment/1").Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{
				"records": []map[string]interface{}{{
					"id":         commentId.String(),
					"languageId": 1,
					"content":    "Semantic tags first",
					"author":     map[string]interface{}{"username": "alice"},
					"likesCount": 2,
					"liked":      false,
					"edited":     false,
					"createdAt":  fixedTimeString,
					"updatedAt":  fixedTimeString,
				}},
				"pagination": map[string]interface{}{"offset": 0, "limit": 10, "records": 1},
			})
	})

	t.Run("CreateSanitized", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM languages WHERE id").WithArgs(1).WillReturnRows(languageRows(1, "HTML"))
		poolMock.ExpectQuery("INSERT INTO comments").WithArgs(pgxmock.AnyArg(), user.ID, 1, "Hello world").
			WillReturnRows(pgxmock.NewRows(commentColumnNames).
				AddRow(commentId, user.ID, "alice", 1, "Hello world", 0, fixedTime, fixedTime, false))

		body := expect.POST("/api/comment").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 1, "content": "  <b>Hello</b> world "}).
			Expect().Status(http.StatusCreated).
			JSON().Object()
		body.Value("content").IsEqual("Hello world")
		body.Value("author").Object().Value("username").IsEqual("alice")
	})

	t.Run("CreateEmptyAfterSanitizing", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.POST("/api/comment").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"languageId": 1, "content": "<b></b>  "}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Comment must be between 1 and 300 characters"))
	})

	t.Run("UpdateForeignComment", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("UPDATE comments SET content").WithArgs(commentId, user.ID, "Edited").
			WillReturnRows(pgxmock.NewRows(commentColumnNames))
		poolMock.ExpectQuery("SELECT user_id FROM comments").WithArgs(commentId).
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uuid.New()))

		expect.PUT("/api/comment/"+commentId.String()).WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"content": "Edited"}).
			Expect().Status(http.StatusForbidden).
			JSON().IsEqual(errorBody("You can only edit your own comments"))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectExec("DELETE FROM comments").WithArgs(commentId, user.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		poolMock.ExpectQuery("SELECT user_id FROM comments").WithArgs(commentId).
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

		expect.DELETE("/api/comment/"+commentId.String()).WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusNotFound).
			JSON().IsEqual(errorBody("Comment not found"))
	})

	t.Run("ToggleLike", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("WITH removed AS").WithArgs(user.ID, commentId).
			WillReturnRows(pgxmock.NewRows([]string{"likes_count", "liked"}).AddRow(1, true))

		expect.PATCH("/api/comment/"+commentId.String()+"/like").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"commentId": commentId.String(), "liked": true, "likesCount": 1})
	})

	t.Run("ToggleLikeUnknownComment", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("WITH removed AS").WithArgs(user.ID, commentId).
			WillReturnRows(pgxmock.NewRows([]string{"likes_count", "liked"}))

		expect.PATCH("/api/comment/"+commentId.String()+"/like").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusNotFound).
			JSON().IsEqual(errorBody("Comment not found"))
	})

	t.Run("ToggleLikeInvalidId", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.PATCH("/api/comment/42/like").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Invalid comment id"))
	})
}

func TestProfile(t *testing.T) {
	user := testUser(t, "Secret123!")

	t.Run("ChangeName", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		renamed := *user
		renamed.FirstName = "Ada"
		poolMock.ExpectQuery("UPDATE users SET first_name").WithArgs(user.ID, "Ada").
			WillReturnRows(userRows(&renamed))

		expect.PUT("/api/profile/name").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"firstName": "  Ada  ", "lastName": ""}).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"firstName": "Ada", "lastName": "Liddell"})
	})

	nameCases := []struct {
		name    string
		request map[string]interface{}
		message string
	}{
		{"FirstNameTooLong", map[string]interface{}{"firstName": "Abcdefghijklmnop"}, "First name too long (max 15 characters)"},
		{"LastNameTooLong", map[string]interface{}{"lastName": "Abcdefghijklmnop"}, "Last name too long (max 15 characters)"},
		{"NoFields", map[string]interface{}{"firstName": "   "}, "No valid fields to update."},
	}
	for _, tc := range nameCases {
		t.Run(tc.name, func(t *testing.T) {
			expect, _, jwtMgr := setupServer(t)

			expect.PUT("/api/profile/name").WithHeader("Authorization", bearer(t, jwtMgr, user)).
				WithJSON(tc.request).
				Expect().Status(http.StatusBadRequest).
				JSON().IsEqual(errorBody(tc.message))
		})
	}

	t.Run("ChangeEmailUnchanged", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM users WHERE id").WithArgs(user.ID).WillReturnRows(userRows(user))

		expect.PUT("/api/profile/email").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"email": user.Email}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("New email cannot be the same as old email"))
	})

	t.Run("ChangeEmailTaken", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectQuery("FROM users WHERE id").WithArgs(user.ID).WillReturnRows(userRows(user))
		poolMock.ExpectQuery("UPDATE users SET email").WithArgs(user.ID, "bob@example.com").
			WillReturnError(uniqueViolation("users_email_key"))

		expect.PUT("/api/profile/email").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"email": "bob@example.com"}).
			Expect().Status(http.StatusConflict).
			JSON().IsEqual(errorBody("Email already registered"))
	})

	t.Run("ChangeEmailInvalid", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.PUT("/api/profile/email").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{"email": "bob at example"}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Invalid email format"))
	})

	t.Run("ChangeNewsletterMissing", func(t *testing.T) {
		expect, _, jwtMgr := setupServer(t)

		expect.PUT("/api/profile/newsletter").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			WithJSON(map[string]interface{}{}).
			Expect().Status(http.StatusBadRequest).
			JSON().IsEqual(errorBody("Invalid newsletter value"))
	})

	t.Run("DeleteAccountThenProfile", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		token := bearer(t, jwtMgr, user)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("FROM users WHERE id = \\$1 FOR UPDATE").WithArgs(user.ID).
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
		poolMock.ExpectExec("UPDATE comments SET likes_count").WithArgs(user.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		poolMock.ExpectExec("DELETE FROM users").WithArgs(user.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		poolMock.ExpectCommit()
		poolMock.ExpectQuery("FROM users WHERE id").WithArgs(user.ID).WillReturnRows(userRows())

		expect.DELETE("/api/profile").WithHeader("Authorization", token).
			Expect().Status(http.StatusOK).
			JSON().IsEqual(map[string]interface{}{"message": "User and related data deleted"})
		// The token outlives the account but resolves to nothing.
		expect.GET("/api/profile").WithHeader("Authorization", token).
			Expect().Status(http.StatusNotFound).
			JSON().IsEqual(errorBody("User not found"))
	})

	t.Run("DeleteAccountRollsBack", func(t *testing.T) {
		expect, poolMock, jwtMgr := setupServer(t)
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("FROM users WHERE id = \\$1 FOR UPDATE").WithArgs(user.ID).
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
		poolMock.ExpectExec("UPDATE comments SET likes_count").WithArgs(user.ID).
			WillReturnError(&pgconn.PgError{Code: "40P01"})
		poolMock.ExpectRollback()

		expect.DELETE("/api/profile").WithHeader("Authorization", bearer(t, jwtMgr, user)).
			Expect().Status(http.StatusInternalServerError).
			JSON().IsEqual(errorBody("Internal server error"))
	})
}
