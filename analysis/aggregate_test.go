package analysis

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/transcription"
)

func TestAggregate(t *testing.T) {
	water := &classification.Result{Label: "Water", Index: 1, Score: 0.75}
	speech := &transcription.Result{Text: "도와줘 살려줘", Keywords: []string{"도와줘", "살려줘"}}
	clsErr := errors.ModelUnavailable("yamnet")
	trErr := errors.InferenceFailed("whisper", stderrors.New("status 500"))

	tests := []struct {
		name       string
		cls        *classification.Result
		clsErr     error
		tr         *transcription.Result
		trErr      error
		policy     FailurePolicy
		wantStatus Status
		wantCode   errors.ErrorCode
		wantBody   Response
	}{
		{
			name: "both succeed", cls: water, tr: speech,
			wantStatus: StatusCompleted,
			wantBody: Response{
				"sound_class": "Water", "transcription": "도와줘 살려줘",
				"detected_keywords": []string{"도와줘", "살려줘"},
			},
		},
		{
			name: "classification error first", clsErr: clsErr, trErr: trErr,
			wantStatus: StatusFailed, wantCode: errors.ErrCodeModelUnavailable,
		},
		{
			name: "transcription error under total", cls: water, trErr: trErr,
			wantStatus: StatusFailed, wantCode: errors.ErrCodeInferenceFailed,
		},
		{
			name: "transcription error under partial", cls: water, trErr: trErr, policy: FailurePolicyPartial,
			wantStatus: StatusPartial, wantCode: errors.ErrCodeInferenceFailed,
			wantBody: Response{
				"sound_class": "Water",
				"error":       trErr.Message, "code": errors.ErrCodeInferenceFailed,
			},
		},
		{
			name: "classification error under partial", clsErr: clsErr, tr: speech, policy: FailurePolicyPartial,
			wantStatus: StatusPartial, wantCode: errors.ErrCodeModelUnavailable,
			wantBody: Response{
				"transcription": "도와줘 살려줘", "detected_keywords": []string{"도와줘", "살려줘"},
				"error": clsErr.Message, "code": errors.ErrCodeModelUnavailable,
			},
		},
		{
			name: "missing result without error", tr: speech,
			wantStatus: StatusFailed, wantCode: errors.ErrCodeInternal,
		},
		{
			name: "plain error is wrapped", cls: water, trErr: stderrors.New("boom"),
			wantStatus: StatusFailed, wantCode: errors.ErrCodeInternal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Aggregate(tc.cls, tc.clsErr, tc.tr, tc.trErr, tc.policy)
			if res.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", res.Status, tc.wantStatus)
			}
			if res.Code() != tc.wantCode {
				t.Errorf("code = %s, want %s", res.Code(), tc.wantCode)
			}
			if tc.wantBody != nil && !reflect.DeepEqual(res.Response(), tc.wantBody) {
				t.Errorf("Response() = %v, want %v", res.Response(), tc.wantBody)
			}
		})
	}
}

func TestFailedResponse(t *testing.T) {
	res := Failed(errors.UnsupportedFormat("exe"))
	body := res.Response()
	if len(body) != 2 || body["code"] != errors.ErrCodeUnsupportedFormat || body["error"] == "" {
		t.Errorf("unexpected failure body %v", body)
	}
	if res.HTTPStatus() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.HTTPStatus())
	}
}

func TestCompletedNilKeywordsRenderEmpty(t *testing.T) {
	res := Aggregate(
		&classification.Result{Label: "Silence"}, nil,
		&transcription.Result{}, nil,
		FailurePolicyTotal,
	)
	kw, ok := res.Response()["detected_keywords"].([]string)
	if !ok || kw == nil || len(kw) != 0 {
		t.Errorf("expected empty keyword list, got %#v", res.Response()["detected_keywords"])
	}
}

func TestConfigPolicy(t *testing.T) {
	if (Config{}).Policy() != FailurePolicyTotal {
		t.Error("default policy must be total")
	}
	if (Config{AllowPartial: true}).Policy() != FailurePolicyPartial {
		t.Error("allow_partial must select the partial policy")
	}
	if FailurePolicyPartial.String() != "partial" || FailurePolicyTotal.String() != "total" {
		t.Error("unexpected policy names")
	}
}
