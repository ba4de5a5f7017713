// Package signup отправляет форму регистрации с командной строки.
package signup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/GoArmGo/registro/internal/precheck"
)

// Result — куда сервер перенаправил после отправки формы.
type Result struct {
	Location string
	Error    string
}

// Registered сообщает, привёл ли редирект на страницу подтверждения.
func (r Result) Registered() bool {
	return r.Error == "" && strings.HasSuffix(r.Location, "/bienvenido.html")
}

// Client отправляет форму на сервер регистрации.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт клиент. Редиректы не выполняются: нужен сам Location.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := *httpClient
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &c}
}

// Submit выполняет предварительную проверку и, если она пройдена, отправляет форму.
func (c *Client) Submit(ctx context.Context, f precheck.Form) (Result, error) {
	if err := precheck.Check(f); err != nil {
		return Result{}, err
	}

	values := url.Values{
		"nombre":     {f.Nombre},
		"email":      {f.Email},
		"contrasena": {f.Contrasena},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/registro", strings.NewReader(values.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	loc := resp.Header.Get("Location")
	if loc == "" {
		return Result{}, errors.New("redirect without Location")
	}
	u, err := url.Parse(loc)
	if err != nil {
		return Result{}, fmt.Errorf("parse Location: %w", err)
	}
	return Result{Location: u.Path, Error: u.Query().Get("error")}, nil
}
