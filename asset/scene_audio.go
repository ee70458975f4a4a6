package asset

// DefaultSceneAudioConfig returns the built-in scene audio TOML configuration
// Every clip is a synthesized tone so the demo runs without asset files;
// real projects map clip ids to files under [clips]
const DefaultSceneAudioConfig = `

# === Fade durations ===
[fades]
music = "1s"
diegetic = "1s"
ambience = "1s"


# === Scenes ===
# Omitted music/ambience leaves that channel as it is

[[scenes]]
id = "MainMenu"
music = "tone:220"
suppress_diegetic = true

[[scenes]]
id = "Level1"
music = "tone:330"
ambience = "tone:110"

[[scenes]]
id = "Level2"
music = "tone:330"
ambience = "tone:82.5"

[[scenes]]
id = "Credits"
music = "tone:262"
suppress_diegetic = true


# === Clip files, relative to the asset dir ===
[clips]
# spaceAmbience = "ambience/space.ogg"


# === One-shot categories ===
[sounds]
button_select = ["tone:1320"]
button_click = ["tone:1200"]
button_denied = ["tone:180"]
attack = ["tone:880", "tone:990", "tone:1100"]
footstep = ["tone:140", "tone:160"]
orb_collect = ["tone:1760"]
player_death = ["tone:110"]
dash = ["tone:660"]
jump = ["tone:740"]
`
