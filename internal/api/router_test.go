package api

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type form struct {
		Type  string `binding:"required,point_type"`
		Start string `binding:"required,hhmm"`
		Date  string `binding:"required,ymd"`
	}

	tests := []struct {
		name string
		in   form
		ok   bool
	}{
		{"Valid", form{"high_seat", "06:30", "2024-05-01"}, true},
		{"Unknown type", form{"tower", "06:30", "2024-05-01"}, false},
		{"Single digit hour", form{"hut", "6:30", "2024-05-01"}, false},
		{"Hour out of range", form{"hut", "25:00", "2024-05-01"}, false},
		{"Czech date", form{"hut", "06:30", "01.05.2024"}, false},
		{"No such day", form{"hut", "06:30", "2024-02-30"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewRouterNeedsProdOrigins(t *testing.T) {
	_, err := NewRouter(Config{IsProduction: true, ProdOrigins: " , ", Logger: zap.NewNop()})
	assert.Error(t, err)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.cz", "https://b.cz"}, splitOrigins(" https://a.cz ,,https://b.cz"))
	assert.Nil(t, splitOrigins(""))
}
