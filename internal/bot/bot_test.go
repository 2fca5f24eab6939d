package bot

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	parser := NewCommandParser()

	tests := []struct {
		text      string
		wantCmd   string
		wantArgs  []string
		isCommand bool
	}{
		{"!работать", "работать", nil, true},
		{"!Рулетка красное 100", "рулетка", []string{"красное", "100"}, true},
		{".баланс", "баланс", nil, true},
		{"/login секрет", "login", []string{"секрет"}, true},
		{"/start@roulette_bot", "start", nil, true},
		{"  !перевод @user 50  ", "перевод", []string{"@user", "50"}, true},
		{"просто текст", "", nil, false},
		{"!", "", nil, false},
		{"", "", nil, false},
	}

	for _, tt := range tests {
		cmd, args, isCommand := parser.ParseCommand(tt.text)
		if isCommand != tt.isCommand || cmd != tt.wantCmd || !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("ParseCommand(%q) = (%q, %v, %v), ожидалось (%q, %v, %v)",
				tt.text, cmd, args, isCommand, tt.wantCmd, tt.wantArgs, tt.isCommand)
		}
	}
}
