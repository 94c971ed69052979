package protocol

import (
	"encoding/json"
	"strings"
)

// ServerInfo describes the connected server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Tools   []Tool `json:"tools"`
}

// Tool describes a tool exposed by the server
type Tool struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ParametersSchema json.RawMessage `json:"parameters_schema,omitempty"`
}

// JSON returns the server info payload; a nil info is "null"
func (s *ServerInfo) JSON() string {
	if s == nil {
		return "null"
	}
	info := *s
	if info.Tools == nil {
		info.Tools = []Tool{}
	}
	data, err := json.Marshal(&info)
	if err != nil {
		return "null"
	}
	return string(data)
}

// listedTool mirrors the MCP tools/list wire shape
type listedTool struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ToolsFromList converts a tools/list result into tool descriptors
func ToolsFromList(result interface{}) ([]Tool, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	listed := struct {
		Tools []listedTool `json:"tools"`
	}{}
	if err = json.Unmarshal(data, &listed); err != nil {
		return nil, err
	}
	var tools = make([]Tool, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		item := Tool{Name: tool.Name, ParametersSchema: tool.InputSchema}
		if tool.Description != nil {
			item.Description = strings.TrimSpace(*tool.Description)
		}
		tools = append(tools, item)
	}
	return tools, nil
}

// ServerInfoFromInitialize extracts name and version from an initialize result
func ServerInfoFromInitialize(result interface{}) (*ServerInfo, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	initialized := struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}{}
	if err = json.Unmarshal(data, &initialized); err != nil {
		return nil, err
	}
	return &ServerInfo{Name: initialized.ServerInfo.Name, Version: initialized.ServerInfo.Version}, nil
}
