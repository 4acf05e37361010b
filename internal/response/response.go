package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// HTML レスポンスを生成
func HTML(code int, body []byte, cacheControl string) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type": contentTypeHTML,
	}
	if cacheControl != "" {
		headers["Cache-Control"] = cacheControl
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Body:       string(body),
		Headers:    headers,
	}
}

// 成功レスポンスを生成
func Success(data interface{}) events.APIGatewayProxyResponse {
	return JSON(http.StatusOK, data)
}

// JSON レスポンスを生成
func JSON(code int, data interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "failed to marshal response")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":  contentTypeJSON,
			"Cache-Control": "no-store",
		},
	}
}

// エラーレスポンス
func errorResponse(code int, message string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(map[string]string{
		"error": message,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: code,
			Body:       `{"error":"failed to marshal error response"}`,
			Headers: map[string]string{
				"Content-Type": contentTypeJSON,
			},
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": contentTypeJSON,
		},
	}
}

// 許可されていないメソッド
func MethodNotAllowed() events.APIGatewayProxyResponse {
	return errorResponse(http.StatusMethodNotAllowed, "method not allowed")
}

// 任意のステータスのエラー
func Error(code int, message string) events.APIGatewayProxyResponse {
	return errorResponse(code, message)
}
