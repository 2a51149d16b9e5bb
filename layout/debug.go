package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalDebug 将节点树或 Frame 编码为缩进 JSON；元素以名称输出。
func MarshalDebug(v any) ([]byte, error) {
	if v == nil {
		return []byte("null\n"), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteDebugJSON 写出 MarshalDebug 的结果，必要时创建父目录。
func WriteDebugJSON(v any, path string) error {
	data, err := MarshalDebug(v)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
