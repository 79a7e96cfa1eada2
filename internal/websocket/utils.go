package websocket

import "encoding/json"

// mapToStruct converts decoded JSON data into target.
func mapToStruct(data interface{}, target interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// MapToStruct is mapToStruct for handlers living in other packages.
func MapToStruct(data interface{}, target interface{}) error {
	return mapToStruct(data, target)
}
