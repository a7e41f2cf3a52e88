package errors

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrorDump flattens an error chain into loggable fields, surfacing MySQL
// driver details when the chain bottoms out in the database.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	MySQLNumber  uint16 `json:"mysql_number,omitempty"`
	MySQLMessage string `json:"mysql_message,omitempty"`
	MySQLState   string `json:"mysql_state,omitempty"`
}

// Dump walks the error chain and collects everything worth logging.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}

	for current := err; current != nil; current = errors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}

	var driverErr *mysql.MySQLError
	if errors.As(err, &driverErr) {
		dump.MySQLNumber = driverErr.Number
		dump.MySQLMessage = driverErr.Message
		dump.MySQLState = string(driverErr.SQLState[:])
	}

	return dump
}
