package model

import "testing"

func TestParseMovieRef(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOrigin MovieOrigin
		wantID     string
	}{
		{"外部 IMDb ID", "tt1375666", OriginExternal, "tt1375666"},
		{"本地引用", "custom_42", OriginLocal, "42"},
		{"空字符串按外部处理", "", OriginExternal, ""},
		{"任意字符串按外部处理", "not-an-imdb-id", OriginExternal, "not-an-imdb-id"},
		{"前缀后非数字仍按本地解析", "custom_abc", OriginLocal, "abc"},
		{"只有前缀", "custom_", OriginLocal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseMovieRef(tt.input)
			if ref.Origin != tt.wantOrigin {
				t.Errorf("ParseMovieRef(%q).Origin = %v, want %v", tt.input, ref.Origin, tt.wantOrigin)
			}
			if ref.ID != tt.wantID {
				t.Errorf("ParseMovieRef(%q).ID = %q, want %q", tt.input, ref.ID, tt.wantID)
			}
		})
	}
}

func TestMovieRefRoundTrip(t *testing.T) {
	refs := []MovieRef{
		NewExternalRef("tt0111161"),
		NewExternalRef("abc123"),
		NewLocalRef("1"),
		NewLocalRef("9999"),
	}

	for _, ref := range refs {
		got := ParseMovieRef(ref.String())
		if got != ref {
			t.Errorf("decode(encode(%v)) = %v", ref, got)
		}
	}
}

func TestMovieRefString(t *testing.T) {
	if got := NewLocalRef("7").String(); got != "custom_7" {
		t.Errorf("本地引用编码 = %q, want %q", got, "custom_7")
	}
	if got := NewExternalRef("tt0068646").String(); got != "tt0068646" {
		t.Errorf("外部引用编码 = %q, want %q", got, "tt0068646")
	}
	if !NewLocalRef("7").IsLocal() {
		t.Error("本地引用 IsLocal() 应为 true")
	}
	if NewExternalRef("tt0068646").IsLocal() {
		t.Error("外部引用 IsLocal() 应为 false")
	}
}
