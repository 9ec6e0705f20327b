package schedule

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Ref ссылка на предмет или преподавателя в JSON расписания.
// Исторически клиенты присылают её в трёх видах: числовой id,
// id строкой или вложенный объект {"id": ..., "name": ...}.
// Форма приводится к id один раз при декодировании, дальше по коду
// ветвления по форме нет. Нулевое значение означает "не назначено"
// и сериализуется как null, никогда как "" или 0.
type Ref uint

func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32); err == nil {
			*r = Ref(n)
		}
	case '{':
		var obj struct {
			ID Ref `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			*r = obj.ID
		}
	default:
		var n uint
		if err := json.Unmarshal(data, &n); err == nil {
			*r = Ref(n)
		}
	}

	// Некорректная ссылка молча считается пустой: редактор сам
	// заполнит ячейку заново, ошибка здесь ничего не даёт.
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(uint(r))
}

// ID возвращает указатель для записи в NULL-колонку базы.
func (r Ref) ID() *uint {
	if r == 0 {
		return nil
	}
	id := uint(r)
	return &id
}
