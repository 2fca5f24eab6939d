package middleware

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику обработчика апдейта: один сломанный
// апдейт не должен останавливать приём остальных.
func RecoverFromPanic() {
	r := recover()
	if r == nil {
		return
	}
	log.WithFields(log.Fields{
		"panic": r,
		"stack": string(debug.Stack()),
	}).Error("Паника в обработчике апдейта подавлена")
}
