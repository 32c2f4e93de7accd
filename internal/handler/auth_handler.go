package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/gorilla/mux"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 1 << 20

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordRequest struct {
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

type UserResponse struct {
	UserID     string     `json:"userId"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Bio        string     `json:"bio"`
	Avatar     string     `json:"avatar"`
	IsActive   bool       `json:"isActive"`
	DateJoined time.Time  `json:"dateJoined"`
	Activated  *time.Time `json:"activatedAt,omitempty"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

type RegisterResponse struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type PendingResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handlers) userResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:     user.UserID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Bio:        user.Bio,
		Avatar:     h.mediaURL(user.Avatar),
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
		Activated:  user.ActivatedAt,
	}
}

// decodeJSON reads and validates a JSON body, writing the error response itself.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, "Invalid request format", http.StatusBadRequest)
		return false
	}

	if err := h.Validate.Struct(dst); err != nil {
		writeValidatorError(w, err)
		return false
	}

	return true
}

func (h *Handlers) authenticated(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	accessToken, err := h.AuthService.IssueToken(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{AccessToken: accessToken, User: h.userResponse(user)}, status)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AccountService.Register(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, RegisterResponse{
		UserID:  user.UserID,
		Email:   user.Email,
		Message: "Please check your email to complete the registration",
	}, http.StatusCreated)
}

// Activate shows the pending account on GET and completes it on POST.
func (h *Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	switch r.Method {
	case http.MethodGet:
		user, err := h.AccountService.ResolveActivation(r.Context(), token)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, PendingResponse{Email: user.Email, Message: "Fill in your profile to activate the account"}, http.StatusOK)

	case http.MethodPost:
		h.completeActivation(w, r, token)

	default:
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) completeActivation(w http.ResponseWriter, r *http.Request, token string) {
	if !h.parseForm(w, r) {
		return
	}

	req := service.ActivationRequest{
		FirstName:    r.FormValue("first_name"),
		LastName:     r.FormValue("last_name"),
		Bio:          r.FormValue("bio"),
		Password:     r.FormValue("password1"),
		Confirmation: r.FormValue("password2"),
	}

	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["avatar"]; len(headers) > 0 {
			upload, closeFn, err := openUpload(headers[0])
			if err != nil {
				WriteError(w, "Failed to read the file", http.StatusBadRequest)
				return
			}
			defer closeFn()
			req.Avatar = &upload
		}
	}

	user, err := h.AccountService.CompleteActivation(r.Context(), token, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.authenticated(w, r, user, http.StatusOK)
}

// parseForm accepts multipart and urlencoded bodies up to the upload limit.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	limit := h.Cfg.MaxUploadSize
	if h.Cfg.MaxImagesPerPost > 0 {
		limit *= int64(h.Cfg.MaxImagesPerPost)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "Failed to process the form", http.StatusBadRequest)
		}
		return false
	}

	return true
}

func openUpload(header *multipart.FileHeader) (service.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return service.Upload{}, nil, err
	}

	return service.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, func() { file.Close() }, nil
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, accessToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{AccessToken: accessToken, User: h.userResponse(user)}, http.StatusOK)
}

func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResetRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.AccountService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "We have sent you a link to reset the password"}, http.StatusOK)
}

// PasswordReset checks the reset link on GET and sets the new password on POST.
func (h *Handlers) PasswordReset(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	switch r.Method {
	case http.MethodGet:
		user, err := h.AccountService.ResolvePasswordReset(r.Context(), token)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, PendingResponse{Email: user.Email, Message: "Choose a new password"}, http.StatusOK)

	case http.MethodPost:
		var req NewPasswordRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		if err := h.AccountService.CompletePasswordReset(r.Context(), token, req.Password1, req.Password2); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, MessageResponse{Message: "Your password has been changed, you can log in now"}, http.StatusOK)

	default:
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
