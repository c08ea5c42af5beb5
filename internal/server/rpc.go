package server

import (
	"context"
	"log/slog"
	"time"

	"glowup/internal/middleware"
	"glowup/internal/models"
	"glowup/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// procedureTimeout bounds the store calls made by a single procedure.
const procedureTimeout = 5 * time.Second

type procedureKind int

const (
	kindQuery procedureKind = iota
	kindMutation
)

// procedure is one named RPC operation. Queries accept GET and POST,
// mutations only POST.
type procedure struct {
	kind   procedureKind
	status int
	call   func(ctx context.Context, input []byte) (interface{}, error)
}

func query(call func(context.Context, []byte) (interface{}, error)) procedure {
	return procedure{kind: kindQuery, status: fiber.StatusOK, call: call}
}

func mutation(call func(context.Context, []byte) (interface{}, error)) procedure {
	return procedure{kind: kindMutation, status: fiber.StatusOK, call: call}
}

func creation(call func(context.Context, []byte) (interface{}, error)) procedure {
	return procedure{kind: kindMutation, status: fiber.StatusCreated, call: call}
}

// withInput adapts a service method taking a JSON object input.
func withInput[In any, Out any](fn func(context.Context, In) (Out, error)) func(context.Context, []byte) (interface{}, error) {
	return func(ctx context.Context, raw []byte) (interface{}, error) {
		var in In
		if err := decodeInput(raw, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

// withID adapts a service method taking a single id, given bare or as {key: id}.
func withID[Out any](key string, fn func(context.Context, uint) (Out, error)) func(context.Context, []byte) (interface{}, error) {
	return func(ctx context.Context, raw []byte) (interface{}, error) {
		id, err := decodeID(raw, key)
		if err != nil {
			return nil, err
		}
		return fn(ctx, id)
	}
}

func (s *Server) registerProcedures() map[string]procedure {
	return map[string]procedure{
		"healthcheck": query(s.healthcheck),

		"createUser": creation(withInput(s.userService.CreateUser)),
		"updateUser": mutation(withInput(s.userService.UpdateUser)),
		"getUser":    query(withID("id", s.userService.GetUser)),

		"createPost":   creation(withInput(s.postService.CreatePost)),
		"getPost":      query(withID("id", s.postService.GetPost)),
		"getUserPosts": query(withInput(s.postService.GetUserPosts)),
		"getFeed":      query(withInput(s.postService.GetFeed)),

		"createBeforeAfter": creation(withInput(s.postService.CreateBeforeAfter)),
		"createProgressLog": creation(withInput(s.postService.CreateProgressLog)),
		"createRoutine":     creation(withInput(s.postService.CreateRoutine)),

		"followUser":   creation(withInput(s.socialService.FollowUser)),
		"unfollowUser": mutation(withInput(s.socialService.UnfollowUser)),
		"likePost":     creation(withInput(s.socialService.LikePost)),
		"unlikePost":   mutation(withInput(s.socialService.UnlikePost)),

		"createComment":   creation(withInput(s.commentService.CreateComment)),
		"updateComment":   mutation(withInput(s.commentService.UpdateComment)),
		"deleteComment":   mutation(withID("id", s.commentService.DeleteComment)),
		"getPostComments": query(withID("post_id", s.commentService.GetPostComments)),
	}
}

// HandleProcedure dispatches /rpc/:procedure.
// @Summary Call a procedure
// @Description Queries take GET ?input=<url-encoded JSON> or a POST JSON body; mutations take a POST JSON body.
// @Tags rpc
// @Accept json
// @Produce json
// @Param procedure path string true "Procedure name" Enums(healthcheck, createUser, updateUser, getUser, createPost, getPost, getUserPosts, getFeed, createBeforeAfter, createProgressLog, createRoutine, followUser, unfollowUser, likePost, unlikePost, createComment, updateComment, deleteComment, getPostComments)
// @Param input query string false "JSON input for GET queries"
// @Success 200 {object} object
// @Success 201 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 405 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /rpc/{procedure} [get]
// @Router /rpc/{procedure} [post]
func (s *Server) HandleProcedure(c *fiber.Ctx) error {
	name := c.Params("procedure")
	proc, ok := s.procedures[name]
	if !ok {
		err := &models.AppError{Code: models.CodeNotFound, Message: "Procedure " + name + " not found"}
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var input []byte
	if c.Method() == fiber.MethodGet {
		if proc.kind == kindMutation {
			c.Set(fiber.HeaderAllow, fiber.MethodPost)
			middleware.ProcedureCalls.WithLabelValues(name, models.CodeMethodNotAllowed).Inc()
			return models.RespondWithError(c, fiber.StatusMethodNotAllowed, models.NewMethodNotAllowedError(name, fiber.MethodPost))
		}
		input = []byte(c.Query("input"))
	} else {
		input = c.Body()
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), procedureTimeout)
	defer cancel()
	ctx = middleware.WithProcedure(ctx, name)
	ctx, span := observability.StartProcedureSpan(ctx, name)
	defer span.End()

	out, err := proc.call(ctx, input)
	if err != nil {
		observability.RecordError(span, err)
		code := models.CodeInternal
		if appErr, ok := models.AsAppError(err); ok {
			code = appErr.Code
		}
		middleware.ProcedureCalls.WithLabelValues(name, code).Inc()
		if code == models.CodeInternal {
			middleware.Logger.ErrorContext(ctx, "procedure failed", slog.String("error", err.Error()))
		}
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	middleware.ProcedureCalls.WithLabelValues(name, "OK").Inc()
	return c.Status(proc.status).JSON(out)
}

// healthcheck reports that the procedure layer is serving.
func (s *Server) healthcheck(_ context.Context, _ []byte) (interface{}, error) {
	return fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}
