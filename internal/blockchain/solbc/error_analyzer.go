// internal/blockchain/solbc/error_analyzer.go
package solbc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// AnchorError represents an error from Anchor framework
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// Analysis - разбор ошибки RPC для логов и отчётов.
type Analysis struct {
	Type             string       `json:"type"`
	Code             int          `json:"code,omitempty"`
	Message          string       `json:"message"`
	SimulationFailed bool         `json:"simulation_failed,omitempty"`
	Logs             []string     `json:"logs,omitempty"`
	Anchor           *AnchorError `json:"anchor_error,omitempty"`
	InstructionError interface{}  `json:"instruction_error,omitempty"`
}

// ErrorAnalyzer provides methods to analyze Solana transaction errors
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// Analyze разбирает jsonrpc.RPCError: логи симуляции, ошибку инструкции и Anchor-ошибку.
func (ea *ErrorAnalyzer) Analyze(err error) *Analysis {
	if err == nil {
		return nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return &Analysis{Type: "generic_error", Message: err.Error()}
	}

	result := &Analysis{
		Type:    "rpc_error",
		Code:    rpcErr.Code,
		Message: rpcErr.Message,
	}

	if !strings.Contains(rpcErr.Message, "Transaction simulation failed") {
		return result
	}
	result.SimulationFailed = true

	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return result
	}
	if logs, ok := dataMap["logs"].([]interface{}); ok {
		for _, logEntry := range logs {
			logStr, ok := logEntry.(string)
			if !ok {
				continue
			}
			result.Logs = append(result.Logs, logStr)
			if strings.Contains(logStr, "AnchorError") {
				anchorErr := ParseAnchorErrorLog(logStr)
				result.Anchor = &anchorErr
				ea.logger.Warn("Anchor error detected",
					zap.Int("code", anchorErr.Code),
					zap.String("name", anchorErr.Name),
					zap.String("message", anchorErr.Msg))
			}
		}
	}
	if instrErr, ok := dataMap["err"]; ok && instrErr != nil {
		result.InstructionError = instrErr
	}

	return result
}

// ParseAnchorErrorLog parses an Anchor error log string
// Example: "Program log: AnchorError occurred. Error Code: InstructionFallbackNotFound. Error Number: 101. Error Message: Fallback functions are not supported."
func ParseAnchorErrorLog(logStr string) AnchorError {
	result := AnchorError{}

	if parts := strings.SplitN(logStr, "Error Number:", 2); len(parts) == 2 {
		numParts := strings.Split(parts[1], ".")
		fmt.Sscanf(strings.TrimSpace(numParts[0]), "%d", &result.Code)
	}

	if parts := strings.SplitN(logStr, "Error Code:", 2); len(parts) == 2 {
		result.Name = strings.TrimSpace(strings.Split(parts[1], ".")[0])
	}

	if parts := strings.SplitN(logStr, "Error Message:", 2); len(parts) == 2 {
		result.Msg = strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")
	}

	return result
}

// Format formats the error analysis for logging or display
func (ea *ErrorAnalyzer) Format(analysis *Analysis) string {
	if analysis == nil {
		return "{}"
	}
	jsonBytes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting analysis: %v", err)
	}
	return string(jsonBytes)
}
