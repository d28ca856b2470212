package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusWithoutChecks(t *testing.T) {
	report := NewService().Status(context.Background())
	assert.True(t, report.OK)
	assert.Nil(t, report.Checks)
}

func TestStatusReportsFailingDependency(t *testing.T) {
	svc := NewService()
	svc.Register("database", PingFunc(func(context.Context) error { return nil }))
	svc.Register("redis", PingFunc(func(context.Context) error { return errors.New("down") }))
	svc.Register("ignored", nil)

	report := svc.Status(context.Background())
	assert.False(t, report.OK)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "error"}, report.Checks)
}
