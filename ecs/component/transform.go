package component

import "github.com/milk9111/posebridge/bridge"

// TransformComponent is the scene-side placement of an entity. Physics writes
// it for dynamic bodies and reads it for kinematic ones.
var TransformComponent = NewComponent[bridge.SceneTransform]("transform")
