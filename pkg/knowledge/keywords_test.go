package knowledge

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short tokens dropped",
			text: "кот дом река пароход",
			want: []string{"река", "пароход"},
		},
		{
			name: "punctuation becomes separators",
			text: "Отпуск: 28 дней, оформление - через портал!",
			want: []string{"отпуск", "дней", "оформление", "через", "портал"},
		},
		{
			name: "case folded",
			text: "ДОГОВОР Договор договор",
			want: []string{"договор", "договор", "договор"},
		},
		{
			name: "underscore kept as word rune",
			text: "report_2024 data",
			want: []string{"report_2024", "data"},
		},
		{
			name: "digits count",
			text: "приказ 12345 от 2024",
			want: []string{"приказ", "12345", "2024"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}
