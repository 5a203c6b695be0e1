package stylometry

import "fmt"

// Prompt templates for each analysis stage. Each demands strict JSON with a
// fixed schema so responses can be decoded without provider-specific parsing.

const codeStyleTemplate = `CODE STYLE ANALYSIS

You are an expert in code stylometry and developer behavior analysis. Analyze this repository to create a detailed profile of the developer's coding patterns, preferences, and habits.

Repository: %s

Code samples and structure:
%s

Focus on identifying unique, individual coding patterns that could distinguish this developer's style. Analyze how they:
- Structure their code and control flow
- Handle data and state
- Approach problem-solving
- Maintain code quality
- Handle edge cases and errors

IMPORTANT CONSTRAINTS:
- Maximum 10 patterns per list category
- No repeating similar patterns
- Use "Unknown" if pattern cannot be determined
- Focus on distinctive, personal coding traits

Generate a JSON profile with this EXACT structure:

{
    "code_organization": {
        "file_structure": {
            "preferred_file_size": number,
            "module_organization": string,
            "separation_patterns": [string]
        },
        "code_layout": {
            "indentation": { "type": string, "width": number },
            "line_length": { "average": number, "max_observed": number },
            "spacing_style": {
                "around_operators": string,
                "after_commas": boolean,
                "around_blocks": string
            }
        }
    },
    "naming_patterns": {
        "variables": {
            "primary_style": string,
            "consistency_score": number,
            "length_preference": { "average": number, "range": [number, number] },
            "semantic_patterns": [string]
        },
        "functions": {
            "primary_style": string,
            "common_prefixes": [string],
            "common_patterns": [string],
            "length_preference": { "average": number, "range": [number, number] }
        }
    },
    "coding_patterns": {
        "control_flow": {
            "preferred_loop_type": string,
            "nesting_depth": { "average": number, "max_observed": number },
            "branching_patterns": [string],
            "condition_complexity": { "average": number, "max_observed": number }
        },
        "data_handling": {
            "preferred_structures": [string],
            "mutation_patterns": {
                "prefers_immutable": boolean,
                "common_patterns": [string]
            },
            "state_management": {
                "approach": string,
                "patterns": [string]
            }
        }
    },
    "error_handling": {
        "strategy": string,
        "patterns": [string],
        "error_checking": {
            "input_validation": boolean,
            "null_checking": boolean,
            "type_checking": boolean
        }
    },
    "code_quality": {
        "documentation": {
            "style": string,
            "coverage_ratio": number,
            "preferred_formats": [string]
        },
        "testing": {
            "approach": string,
            "patterns": [string]
        },
        "complexity_metrics": {
            "cyclomatic_complexity": { "average": number, "max_observed": number },
            "cognitive_complexity": { "average": number, "max_observed": number }
        }
    },
    "distinctive_traits": {
        "unique_patterns": [string],
        "favored_techniques": [string],
        "consistent_habits": [string]
    }
}

Critical requirements:
1. OUTPUT ONLY VALID JSON
2. NO markdown, NO comments, NO explanations
3. Use EXACT key names shown
4. All arrays MAXIMUM 10 items
5. Use numbers for metrics where specified
6. Use "Unknown" for undeterminable values`

func codeStylePrompt(repoName, repoJSON string) string {
	return fmt.Sprintf(codeStyleTemplate, repoName, repoJSON)
}

const projectPreferencesTemplate = `PROJECT PREFERENCES ANALYSIS

You are an expert in developer profiling and technical background analysis. Study this repository to build a comprehensive profile of the developer's technical preferences and knowledge domains.

Repository: %s
Languages: %s

Project Structure:
%s

Configuration Files:
%s

Core Files:
%s

Dependencies:
%s

Analyze deeply to infer:
1. Technical background and expertise level
2. Problem-solving approaches and mathematical foundations
3. Security awareness and defensive programming practices
4. Development environment preferences

Generate detailed JSON analysis:
{
    "developer_profile": {
        "expertise_domains": [
            {
                "domain": string,
                "confidence": number,
                "evidence": [string]
            }
        ],
        "knowledge_patterns": {
            "mathematical_foundations": [
                {
                    "area": string,
                    "usage_examples": [string],
                    "proficiency_level": string
                }
            ],
            "algorithmic_preferences": {
                "common_approaches": [string],
                "complexity_awareness": string,
                "optimization_patterns": [string]
            },
            "security_awareness": {
                "level": string,
                "defensive_patterns": [string],
                "security_considerations": [string]
            }
        }
    },
    "technical_choices": {
        "primary_languages": [
            {
                "language": string,
                "proficiency_indicators": [string],
                "usage_patterns": [string]
            }
        ],
        "frameworks": [
            {
                "name": string,
                "purpose": string,
                "usage_patterns": [string],
                "implementation_depth": string
            }
        ],
        "development_environment": {
            "likely_editor": string,
            "confidence": number,
            "tooling_preferences": [string],
            "evidence": [string]
        },
        "testing_approach": {
            "methodology": string,
            "frameworks": [string],
            "coverage_patterns": string
        }
    },
    "project_organization": {
        "architecture_style": {
            "pattern": string,
            "consistency": number,
            "key_characteristics": [string]
        },
        "code_quality": {
            "standards_adherence": string,
            "documentation_level": string,
            "maintainability_indicators": [string]
        },
        "deployment_patterns": {
            "infrastructure_preferences": [string],
            "containerization_approach": string,
            "ci_cd_sophistication": string
        }
    }
}

Important:
1. Base all inferences on concrete evidence in the code
2. Indicate confidence levels where uncertain
3. Provide specific examples supporting each conclusion
4. Focus on unique/distinctive patterns
5. OUTPUT ONLY VALID JSON, no markdown or explanations`

func projectPreferencesPrompt(repoName, languages, structureJSON, configJSON, coreJSON, packageJSON string) string {
	return fmt.Sprintf(projectPreferencesTemplate,
		repoName, languages, structureJSON, configJSON, coreJSON, packageJSON)
}

const temporalTemplate = `TEMPORAL ANALYSIS

Analyze the temporal evolution of this codebase with focus on developer behavior patterns and code evolution.

Repository: %s

Code Evolution Data:
%s

Generate detailed temporal analysis JSON:
{
    "evolution_patterns": {
        "code_quality": {
            "progression": string,
            "refactoring_patterns": [
                {
                    "pattern": string,
                    "frequency": string,
                    "motivation": string
                }
            ],
            "complexity_trends": {
                "direction": string,
                "significant_changes": [string],
                "trigger_patterns": [string]
            }
        },
        "development_cycles": {
            "commit_patterns": {
                "frequency": {
                    "pattern": string,
                    "active_hours": [string],
                    "timezone_confidence": {
                        "zone": string,
                        "confidence": number,
                        "evidence": [string]
                    }
                },
                "burst_patterns": [
                    {
                        "pattern": string,
                        "typical_duration": string,
                        "characteristics": [string]
                    }
                ]
            },
            "feature_development": {
                "typical_cycle": string,
                "iteration_patterns": [string],
                "testing_integration": string
            }
        },
        "communication_patterns": {
            "pr_characteristics": {
                "detail_level": string,
                "discussion_style": string,
                "iteration_patterns": string
            },
            "documentation_evolution": {
                "frequency": string,
                "detail_trends": string,
                "update_patterns": string
            }
        }
    },
    "architectural_evolution": {
        "major_changes": [
            {
                "change": string,
                "motivation": string,
                "impact": string
            }
        ],
        "improvement_patterns": {
            "refactoring_types": [string],
            "optimization_focus": [string],
            "maintenance_patterns": string
        },
        "technical_debt": {
            "accumulation_patterns": [string],
            "resolution_approaches": string,
            "prevention_strategies": string
        }
    }
}

Requirements:
1. Focus on developer behavior patterns
2. Track evolution of coding style
3. Identify clear timezone patterns
4. Detail burst activity characteristics
5. Analyze code quality progression
6. OUTPUT ONLY VALID JSON, no markdown or explanations`

func temporalPrompt(repoName, evolutionJSON string) string {
	return fmt.Sprintf(temporalTemplate, repoName, evolutionJSON)
}

const identityTemplate = `IDENTITY CONFIDENCE CALCULATION

You are an expert in developer profiling and behavioral analysis. Synthesize all provided analysis data to create a comprehensive profile of the developer's identity, expertise, and behavioral patterns.

Analysis Data:
%s

Based on all provided repository data and previous analyses, create a detailed developer profile focusing on:
1. Technical expertise and knowledge domains
2. Problem-solving patterns and approaches
3. Development philosophy and practices
4. Unique identifiers and consistent traits

Generate a single comprehensive identity profile JSON:

{
    "developer_profile": {
        "expertise": {
            "primary_domains": [
                {
                    "domain": string,
                    "proficiency_level": string,
                    "evidence": [string],
                    "confidence": number
                }
            ],
            "technical_depth": {
                "languages": [
                    {
                        "name": string,
                        "mastery_level": string,
                        "usage_patterns": [string],
                        "notable_practices": [string]
                    }
                ],
                "frameworks": [
                    {
                        "name": string,
                        "usage_sophistication": string,
                        "implementation_patterns": [string]
                    }
                ],
                "specialized_knowledge": [
                    {
                        "area": string,
                        "depth": string,
                        "application_examples": [string]
                    }
                ]
            }
        },
        "work_patterns": {
            "development_style": {
                "code_organization": string,
                "problem_solving_approach": string,
                "quality_focus": string,
                "distinctive_habits": [string]
            },
            "workflow_characteristics": {
                "development_cycle": string,
                "testing_approach": string,
                "refactoring_patterns": string,
                "documentation_style": string
            },
            "communication_style": {
                "code_commenting": string,
                "commit_messages": string,
                "documentation_quality": string
            }
        },
        "behavioral_traits": {
            "strengths": [
                {
                    "trait": string,
                    "evidence": [string],
                    "consistency": number
                }
            ],
            "areas_for_improvement": [
                {
                    "area": string,
                    "indicators": [string]
                }
            ],
            "unique_characteristics": [
                {
                    "trait": string,
                    "significance": string,
                    "supporting_patterns": [string]
                }
            ]
        },
        "knowledge_breadth": {
            "technical_stack": {
                "preferred_technologies": [string],
                "experience_indicators": [string],
                "adoption_patterns": string
            },
            "domain_knowledge": {
                "primary_domains": [string],
                "depth_indicators": [string],
                "application_examples": [string]
            },
            "architectural_understanding": {
                "preferred_patterns": [string],
                "complexity_handling": string,
                "scalability_awareness": string
            }
        },
        "identity_confidence": {
            "overall_score": number,
            "distinguishing_factors": [
                {
                    "factor": string,
                    "significance": string,
                    "supporting_evidence": [string]
                }
            ],
            "consistency_metrics": {
                "coding_style": number,
                "problem_solving": number,
                "quality_standards": number
            },
            "pattern_reliability": {
                "stable_patterns": [string],
                "variable_patterns": [string],
                "context_dependencies": [string]
            }
        }
    }
}

Critical Analysis Requirements:
1. Base all conclusions on concrete evidence from the provided data
2. Focus on patterns that appear consistently across repositories
3. Highlight unique traits that distinguish this developer
4. Note any evolution in skills or practices
5. Indicate confidence levels for all major conclusions
6. Consider both technical and behavioral aspects
7. Identify any potential biases or limitations in the analysis
8. OUTPUT ONLY VALID JSON, no markdown or explanations`

func identityPrompt(analysisJSON string) string {
	return fmt.Sprintf(identityTemplate, analysisJSON)
}

const fileSelectionTemplate = `Analyze the repository structures and identify the most relevant files for codebase analysis.

Focus on files that would reveal:
1. Core functionality and architecture
2. Main business logic
3. Key utilities and helpers
4. Configuration and setup

Results will be used for further code analysis. Remember to include ALL relevant files, especially for fullstack applications. Be thorough but concise. Avoid including non-original code, e.g., dependencies or libraries code. AVOID INCLUDING MORE THAN 50 FILES PER REPOSITORY. CORE_FILES ARE THE PRIORITY, YOU CAN OMIT THE REST IF IT EXCEEDS THE LIMIT.

Return a JSON object with these categories:

{
    "repositories": {
        "repo_name": {
            "core_files": ["list of most important files"],
            "secondary_files": ["list of supporting files"],
            "config_files": ["list of relevant config files"]
        }
    }
}

CRITICAL REQUIREMENTS:

Limit core_files and secondary_files to a maximum of 20 files each, config_files to 10.

Avoid including binary files or large data files. Only include files that are essential for understanding the codebase. Avoid including files the user did not write, e.g., dependencies or library code. Focus on source code; some repositories have many files but only a few are essential. Do not include long .json files or other artifact files - notice the "size" of each file in the structure.

Repository structures:
%s

Only include files that exist in the structure. Return valid JSON format.
DO NOT wrap the JSON in markdown code blocks.`

func fileSelectionPrompt(structuresJSON string) string {
	return fmt.Sprintf(fileSelectionTemplate, structuresJSON)
}
