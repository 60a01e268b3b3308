package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	meetingDTO "github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intel/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
)

// MeetingService is the meeting use case as seen by the HTTP layer
type MeetingService interface {
	ProcessUpload(ctx context.Context, in meeting.UploadInput) (*meeting.UploadResult, error)
	ProcessWhatsApp(ctx context.Context, in meeting.UploadInput) (*meeting.UploadResult, error)
	Prepare(ctx context.Context, in meeting.PrepareInput) (*meeting.PrepareResult, error)
	GetMeeting(ctx context.Context, ref string) (*meeting.MeetingDetails, error)
	History(ctx context.Context, owner *meeting.Owner) ([]*entities.Meeting, error)
}

// Meeting handles uploads, preparation and history
type Meeting struct {
	service       MeetingService
	maxUploadSize int64
	logger        *zap.Logger
}

// NewMeeting creates a new meeting handler. maxUploadSize <= 0 disables the size check.
func NewMeeting(service MeetingService, maxUploadSize int64, logger *zap.Logger) *Meeting {
	return &Meeting{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload godoc
// @Summary      Process a meeting recording
// @Description  Transcribes and summarizes the recording and researches its participants
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file          formData  file    true   "Audio file"
// @Param        language      formData  string  false  "Transcript language (default English)"
// @Param        participants  formData  string  false  "JSON array of {name, email, company}"
// @Param        meetingId     formData  string  false  "Prepared meeting to complete"
// @Success      200  {object}  meeting.UploadResponse
// @Failure      400  {object}  common.ErrorResponse  "No file uploaded"
// @Failure      403  {object}  common.ErrorResponse  "Meeting belongs to another user"
// @Failure      409  {object}  common.ErrorResponse  "Meeting busy or already completed"
// @Failure      500  {object}  common.ErrorResponse  "AI processing failed"
// @Failure      504  {object}  common.ErrorResponse  "AI service timed out"
// @Router       /upload [post]
func (h *Meeting) Upload(c echo.Context) error {
	in, err := h.uploadInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	participants, err := parseParticipants(c.FormValue("participants"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	in.Participants = participants
	in.MeetingRef = strings.TrimSpace(c.FormValue("meetingId"))

	result, err := h.service.ProcessUpload(c.Request().Context(), in)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUploadResponse(result))
}

// UploadWhatsApp godoc
// @Summary      Process a WhatsApp voice note
// @Description  Transcribes the note and returns a short summary with immediate actions
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file      formData  file    true   "Audio file"
// @Param        language  formData  string  false  "Transcript language (default English)"
// @Success      200  {object}  meeting.UploadResponse
// @Failure      400  {object}  common.ErrorResponse  "No file uploaded"
// @Failure      500  {object}  common.ErrorResponse  "AI processing failed"
// @Router       /upload-whatsapp [post]
func (h *Meeting) UploadWhatsApp(c echo.Context) error {
	in, err := h.uploadInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.service.ProcessWhatsApp(c.Request().Context(), in)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUploadResponse(result))
}

// Prepare godoc
// @Summary      Prepare a meeting
// @Description  Researches the participants and generates a pre-meeting brief
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.PrepareRequest  true  "Topic and participants"
// @Success      200      {object}  meeting.PrepareResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing topic or participants"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /prepare [post]
func (h *Meeting) Prepare(c echo.Context) error {
	var req meetingDTO.PrepareRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid request body"))
	}
	// topic and participants have dedicated errors
	if strings.TrimSpace(req.Topic) == "" {
		return HandleError(h.logger, c, errors.ErrMissingTopic())
	}
	if len(req.Participants) == 0 {
		return HandleError(h.logger, c, errors.ErrMissingParticipants())
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(&req); err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
		}
	}

	result, err := h.service.Prepare(c.Request().Context(), meeting.PrepareInput{
		Topic:        strings.TrimSpace(req.Topic),
		Participants: req.Participants,
		Owner:        ownerFrom(c),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToPrepareResponse(result))
}

// Get godoc
// @Summary      Get a meeting
// @Description  Returns a meeting with its participant research; accepts canonical and legacy ids
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /meeting/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	details, err := h.service.GetMeeting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(details))
}

// History godoc
// @Summary      Meeting history
// @Description  Lists the caller's meetings, newest first
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   meeting.HistoryItem
// @Failure      401  {object}  common.ErrorResponse
// @Failure      503  {object}  common.ErrorResponse  "Database not available"
// @Router       /api/history [get]
func (h *Meeting) History(c echo.Context) error {
	meetings, err := h.service.History(c.Request().Context(), ownerFrom(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToHistory(meetings))
}

// uploadInput reads the audio part of a multipart upload
func (h *Meeting) uploadInput(c echo.Context) (meeting.UploadInput, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return meeting.UploadInput{}, errors.ErrMissingFile()
	}
	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		return meeting.UploadInput{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadSize))
	}

	data, err := readFile(fh)
	if err != nil {
		return meeting.UploadInput{}, errors.ErrInternal(err)
	}
	if len(data) == 0 {
		return meeting.UploadInput{}, errors.ErrMissingFile()
	}

	return meeting.UploadInput{
		Audio:    data,
		Filename: fh.Filename,
		MimeType: detectMimeType(fh.Header.Get(echo.HeaderContentType), data),
		Language: strings.TrimSpace(c.FormValue("language")),
		Owner:    ownerFrom(c),
	}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// detectMimeType trusts the declared type unless it is missing or generic
func detectMimeType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != echo.MIMEOctetStream {
		return declared
	}
	return mimetype.Detect(data).String()
}

func parseParticipants(raw string) ([]entities.Participant, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var participants []entities.Participant
	if err := json.Unmarshal([]byte(raw), &participants); err != nil {
		var syntaxErr *json.SyntaxError
		if stdErrors.As(err, &syntaxErr) {
			return nil, errors.ErrInvalidArgument("participants must be a JSON array")
		}
		return nil, errors.ErrInvalidArgument("participants must be a list of {name, email, company}")
	}

	kept := participants[:0]
	for _, p := range participants {
		p.Name = strings.TrimSpace(p.Name)
		p.Email = strings.TrimSpace(p.Email)
		p.Company = strings.TrimSpace(p.Company)
		if p.Name == "" && p.Email == "" {
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}
