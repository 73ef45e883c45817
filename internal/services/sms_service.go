package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// SMSService sends text messages through the Mobizon gateway.
type SMSService struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

const defaultSMSEndpoint = "https://api.mobizon.kz/service/message/sendsmsmessage"

func NewSMSService(apiKey string) *SMSService {
	return &SMSService{
		APIKey:   apiKey,
		Endpoint: defaultSMSEndpoint,
		Client:   http.DefaultClient,
	}
}

func (s *SMSService) Send(phone, message string) error {
	data := url.Values{}
	data.Set("apiKey", s.APIKey)
	data.Set("recipient", phone)
	data.Set("text", message)

	resp, err := s.Client.PostForm(s.Endpoint, data)
	if err != nil {
		return fmt.Errorf("ошибка при отправке запроса: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("не удалось прочитать ответ Mobizon: %v", err)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("не удалось распарсить ответ Mobizon: %v", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("ошибка Mobizon: %s (код %d)", result.Message, result.Code)
	}
	return nil
}
