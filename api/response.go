package api

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/dquimper/rscribd/xmlutil"
)

func decodeResponse(body []byte) (*etree.Element, error) {
	document, err := xmlutil.Parse(body)
	if err != nil {
		return nil, validationError("response body is not valid XML", err)
	}

	rsp := document.Root()
	if rsp == nil || rsp.Tag != "rsp" {
		return nil, validationError("response is missing the rsp element", nil)
	}

	switch xmlutil.AttrValue(rsp, "stat") {
	case "ok":
		return rsp, nil
	case "fail":
		return nil, decodeFailure(rsp)
	default:
		return nil, validationError("response rsp element carries no recognizable stat", nil)
	}
}

func decodeFailure(rsp *etree.Element) error {
	failure := rsp.SelectElement("error")
	if failure == nil {
		return validationError("failed response is missing the error element", nil)
	}

	code, err := strconv.Atoi(xmlutil.AttrValue(failure, "code"))
	if err != nil {
		return validationError("failed response carries a non-numeric error code", err)
	}

	return classifyRemoteError(code, strings.TrimSpace(xmlutil.AttrValue(failure, "message")))
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
