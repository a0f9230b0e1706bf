package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateFileName is the suggested download name for the template.
const TemplateFileName = "template-jadwal.xlsx"

// templateSampleRow is one example row teaching users the expected cell
// formats, in TemplateColumns order.
var templateSampleRow = []interface{}{
	1,
	"Teknologi Rekayasa Perangkat Lunak - D4",
	"TI2043 - Pemrograman Web",
	3,
	"2023",
	"2024/2025",
	"Ganjil",
	"Teori",
	"TI-2A",
	2,
	"Dosen Pengampu",
	"pukul:09:20:00 - 11:00:00 hari:Senin",
	"GK 2.04, G.KULIAH I, size:50",
	40,
}

// WriteTemplate builds the single-sample-row .xlsx template with the exact
// header set the importer expects, leading spaces included.
func WriteTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(TemplateColumns))
	for i, col := range TemplateColumns {
		header[i] = col
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &templateSampleRow); err != nil {
		return nil, fmt.Errorf("write template sample row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}
