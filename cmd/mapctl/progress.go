package main

import (
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
)

func runProgress(apiURL string, out io.Writer) error {
	var result struct {
		Progress []struct {
			Name    string  `json:"name"`
			Total   int     `json:"total"`
			Done    int     `json:"done"`
			Percent float64 `json:"percent"`
		} `json:"progress"`
	}
	resp, err := resty.New().SetBaseURL(apiURL).R().
		SetResult(&result).
		Get("/api/progress")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	for _, st := range result.Progress {
		fmt.Fprintf(out, "%-16s %d/%d (%.1f%%)\n", st.Name, st.Done, st.Total, st.Percent)
	}
	return nil
}
