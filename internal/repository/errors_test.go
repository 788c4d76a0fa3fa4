package repository

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated by gorm", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm sentinel", fmt.Errorf("insert reaction: %w", gorm.ErrDuplicatedKey), true},
		{"mysql duplicate entry", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-video-42' for key 'uniq_actor_target'"}, true},
		{"wrapped mysql duplicate entry", fmt.Errorf("create: %w", &mysqldriver.MySQLError{Number: 1062}), true},
		{"other mysql error", &mysqldriver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, false},
		{"message text alone", errors.New("Duplicate entry '1' for key 'PRIMARY'"), false},
		{"not found", gorm.ErrRecordNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicate(tt.err))
		})
	}
}
