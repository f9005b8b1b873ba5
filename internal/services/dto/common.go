package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MessageResponse - ответ на мутирующий запрос: сообщение и куда перейти дальше
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// FlexString принимает из JSON как строку, так и число.
// Формы присылают "3", JSON-клиенты - 3.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return strings.TrimSpace(string(f))
}

// PaginationMeta - метаданные страницы списка
type PaginationMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// NewPaginationMeta считает число страниц (минимум 1)
func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationMeta{Total: total, Page: page, PageSize: pageSize, Pages: pages}
}
