package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type proxyHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// newProxy serves API Gateway proxy events with an ordinary http.Handler.
func newProxy(h http.Handler) proxyHandler {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := toHTTPRequest(ctx, request)
		if err != nil {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"success":false,"message":"Invalid request body"}`,
			}, nil
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return toProxyResponse(rec), nil
	}
}

func toHTTPRequest(ctx context.Context, request events.APIGatewayProxyRequest) (*http.Request, error) {
	body := request.Body
	if request.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = string(raw)
	}

	query := url.Values{}
	for k, vs := range request.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	for k, v := range request.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	target := request.Path
	if target == "" {
		target = "/"
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, request.HTTPMethod, target, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, vs := range request.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range request.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if id := request.RequestContext.RequestID; id != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", id)
	}
	req.RequestURI = target
	return req, nil
}

func toProxyResponse(rec *httptest.ResponseRecorder) events.APIGatewayProxyResponse {
	res := rec.Result()
	headers := make(map[string]string, len(res.Header))
	for k, vs := range res.Header {
		headers[k] = strings.Join(vs, ",")
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        res.StatusCode,
		Headers:           headers,
		MultiValueHeaders: map[string][]string(res.Header),
		Body:              rec.Body.String(),
	}
}
