package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"smartsdlc/internal/models"
	"smartsdlc/internal/pdftext"
	"smartsdlc/internal/session"
)

const (
	defaultLanguage  = "python"
	defaultFramework = "pytest"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]any{
		"ModelID": s.cfg.Watsonx.ModelID,
		"Client":  s.cfg.Watsonx.Client,
	})
}

type codeRequest struct {
	Requirements string `json:"requirements"`
	Language     string `json:"language"`
}

func (s *Server) handleGenerateCode(c echo.Context) error {
	var req codeRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Requirements) == "" {
		return badRequest("requirements must not be empty")
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}

	result := s.asst.GenerateCode(c.Request().Context(), req.Requirements, req.Language)
	return c.JSON(http.StatusOK, map[string]string{"result": result})
}

type testsRequest struct {
	Code      string `json:"code"`
	Framework string `json:"framework"`
}

func (s *Server) handleGenerateTests(c echo.Context) error {
	var req testsRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequest("code must not be empty")
	}
	if req.Framework == "" {
		req.Framework = defaultFramework
	}

	result := s.asst.GenerateTests(c.Request().Context(), req.Code, req.Framework)
	return c.JSON(http.StatusOK, map[string]string{"result": result})
}

type fixesRequest struct {
	Code             string `json:"code"`
	ErrorDescription string `json:"error_description"`
}

func (s *Server) handleFixBugs(c echo.Context) error {
	var req fixesRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequest("code must not be empty")
	}
	if strings.TrimSpace(req.ErrorDescription) == "" {
		return badRequest("error_description must not be empty")
	}

	result := s.asst.FixBugs(c.Request().Context(), req.Code, req.ErrorDescription)
	return c.JSON(http.StatusOK, map[string]string{"result": result})
}

type summaryRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleSummarize(c echo.Context) error {
	var req summaryRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequest("code must not be empty")
	}

	result := s.asst.SummarizeCode(c.Request().Context(), req.Code)
	return c.JSON(http.StatusOK, map[string]string{"result": result})
}

type classifyRequest struct {
	Requirements string `json:"requirements"`
}

// handleClassify accepts either a JSON body with the requirements text, or a
// multipart upload whose "document" part is a PDF to extract text from.
func (s *Server) handleClassify(c echo.Context) error {
	requirements, err := s.classifyInput(c)
	if err != nil {
		return err
	}

	result := s.asst.ClassifyRequirements(c.Request().Context(), requirements)
	if !result.OK() {
		return c.JSON(http.StatusOK, models.Classification{
			Error:       result.Error,
			RawResponse: result.RawResponse,
		})
	}
	return c.JSON(http.StatusOK, result.Categories)
}

func (s *Server) classifyInput(c echo.Context) (string, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return s.classifyUpload(c)
	}

	var req classifyRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Requirements) == "" {
		return "", badRequest("requirements must not be empty")
	}
	return req.Requirements, nil
}

func (s *Server) classifyUpload(c echo.Context) (string, error) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		return "", badRequest("multipart request must carry a \"document\" part")
	}
	if fileHeader.Size > maxUploadBytes {
		return "", requestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("document exceeds the %d byte upload limit", maxUploadBytes),
			Type:    "invalid_request_error",
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded document: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("read uploaded document: %w", err)
	}

	text, err := pdftext.Extract(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		if errors.Is(err, pdftext.ErrEmptyDocument) {
			return "", badRequest("the uploaded PDF contains no extractable text")
		}
		return "", badRequest(fmt.Sprintf("could not read the uploaded PDF: %v", err))
	}
	return text, nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest("message must not be empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.sessions.NewSession()
	}

	history := session.FormatHistory(s.sessions.History(sessionID))
	reply := s.asst.Chat(c.Request().Context(), req.Message, history)

	s.sessions.Append(sessionID, models.RoleUser, req.Message)
	s.sessions.Append(sessionID, models.RoleAssistant, reply)

	return c.JSON(http.StatusOK, chatResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}

func decodeRequestBody[T any](c echo.Context, target *T) error {
	req := c.Request()
	defer req.Body.Close()

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return badRequest(fmt.Sprintf("invalid JSON payload: %v", err))
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}
