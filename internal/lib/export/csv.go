package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"SaborBot/entity"
)

// RegistrationsCSV renders finalized registrations in the export layout
// consumed by the dashboard and the admin chat export.
func RegistrationsCSV(regs []entity.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "nome", "numero", "restaurante", "chat_id_original", "criado_em"}); err != nil {
		return nil, err
	}
	for _, reg := range regs {
		record := []string{
			strconv.FormatInt(reg.ID, 10),
			reg.Name,
			reg.Phone,
			reg.BusinessName,
			reg.OriginChatID,
			reg.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
