package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/exp/slog"

	"lecturapozos/internal/app/client/config"
)

var (
	// ErrDuplicate - у скважины уже есть показание за текущий период (HTTP 409)
	ErrDuplicate    = errors.New("показание за период уже существует")
	ErrUnauthorized = errors.New("требуется аутентификация")
)

// APIError - неуспешный ответ сервера
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ошибка сервера (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ошибка сервера: статус %d", e.StatusCode)
}

// UploadedFile - описание загруженного файла
type UploadedFile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	timeout := time.Duration(cfg.HTTPTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 4,
		},
	}

	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}

	return &httpClient{
		client:    client,
		log:       log.With("component", "http_client"),
		baseURL:   baseURL,
		userAgent: "LecturaPozos-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	return h.parseResponse(resp, nil)
}

// Login выполняет вход и возвращает токен и пользователя
func (h *httpClient) Login(ctx context.Context, identifier, password string) (string, User, error) {
	req := struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}{
		Identifier: identifier,
		Password:   password,
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "/auth/local", req)
	if err != nil {
		return "", User{}, err
	}

	var loginResp struct {
		JWT  string `json:"jwt"`
		User User   `json:"user"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", User{}, err
	}

	h.SetToken(loginResp.JWT)
	return loginResp.JWT, loginResp.User, nil
}

// Register регистрирует пользователя и возвращает токен и пользователя
func (h *httpClient) Register(ctx context.Context, username, email, password string) (string, User, error) {
	req := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Username: username,
		Email:    email,
		Password: password,
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "/auth/local/register", req)
	if err != nil {
		return "", User{}, err
	}

	var regResp struct {
		JWT  string `json:"jwt"`
		User User   `json:"user"`
	}
	if err := h.parseResponse(resp, &regResp); err != nil {
		return "", User{}, err
	}

	h.SetToken(regResp.JWT)
	return regResp.JWT, regResp.User, nil
}

// CreateLectura создает показание на сервере и возвращает его id
func (h *httpClient) CreateLectura(ctx context.Context, payload Payload) (int, error) {
	body := struct {
		Data Payload `json:"data"`
	}{Data: payload}

	resp, err := h.doRequest(ctx, http.MethodPost, "/lectura-pozos", body)
	if err != nil {
		return 0, err
	}

	var createResp struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	if err := h.parseResponse(resp, &createResp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, apiErr.Message)
		}
		return 0, err
	}

	if createResp.Data.ID == 0 {
		return 0, fmt.Errorf("сервер не вернул id показания")
	}

	return createResp.Data.ID, nil
}

// Upload загружает фото и привязывает его к записи (ref, refId, field)
func (h *httpClient) Upload(ctx context.Context, ref string, refID int, field, path string) ([]UploadedFile, error) {
	body, contentType, err := buildUploadBody(ref, refID, field, path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/upload", body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	h.setHeaders(req)

	h.log.Debug("Загрузка фото", "field", field, "ref_id", refID, "path", path)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	var files []UploadedFile
	if err := h.parseResponse(resp, &files); err != nil {
		return nil, err
	}

	return files, nil
}

func buildUploadBody(ref string, refID int, field, path string) (*bytes.Buffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка открытия фото: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка определения типа фото: %w", err)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(filepath.Base(path))))
	header.Set("Content-Type", mtype.String())

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("ошибка чтения фото: %w", err)
	}

	fields := map[string]string{
		"ref":   ref,
		"refId": strconv.Itoa(refID),
		"field": field,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("ошибка формирования запроса: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}

	return body, w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// ListPozos возвращает справочник скважин
func (h *httpClient) ListPozos(ctx context.Context) ([]Pozo, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/pozos", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Data []struct {
			ID         int `json:"id"`
			Attributes struct {
				Nombre  string `json:"nombre"`
				Bateria string `json:"bateria"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	pozos := make([]Pozo, 0, len(listResp.Data))
	for _, item := range listResp.Data {
		pozos = append(pozos, Pozo{
			ID:      item.ID,
			Nombre:  item.Attributes.Nombre,
			Bateria: item.Attributes.Bateria,
		})
	}

	return pozos, nil
}

// ListLecturas возвращает показания, уже принятые сервером
func (h *httpClient) ListLecturas(ctx context.Context) ([]Lectura, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/lectura-pozos", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Data []struct {
			ID         int     `json:"id"`
			Attributes Lectura `json:"attributes"`
		} `json:"data"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	lecturas := make([]Lectura, 0, len(listResp.Data))
	for _, item := range listResp.Data {
		l := item.Attributes
		l.ID = item.ID
		lecturas = append(lecturas, l)
	}

	return lecturas, nil
}

func (h *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	h.setHeaders(req)

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		}
		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

// errorMessage извлекает текст ошибки из ответа в формате Strapi или huma
func errorMessage(body []byte) string {
	var errResp struct {
		Error  json.RawMessage `json:"error"`
		Detail string          `json:"detail"`
		Title  string          `json:"title"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}

	if len(errResp.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(errResp.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(errResp.Error, &plain); err == nil {
			return plain
		}
	}

	if errResp.Detail != "" {
		return errResp.Detail
	}
	return errResp.Title
}
